// Package domain contains the core entities of the bookshelf: authors and the
// books they wrote. Entities are plain structs with constructors, validation
// and patch application; they know nothing about HTTP or storage.
package domain
