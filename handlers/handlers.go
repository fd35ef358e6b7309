package handlers

import (
	"wajba-server/database"
	"wajba-server/services"
)

// DB is the shared database handle for the simple CRUD handlers.
var DB *database.DB

// Cart is the cart subsystem; everything under /cart goes through it.
var Cart *services.CartService

// Scheduler reschedules cart reminder pushes after cart mutations.
var Scheduler *services.NotificationScheduler

// InitializeHandlers wires the handlers to the database and the cart
// service. The cache falls back to a no-op when Redis is not configured.
func InitializeHandlers(db *database.DB, cache services.SnapshotCache) {
	DB = db
	if cache == nil {
		cache = services.NoopCache{}
	}
	Cart = services.NewCartService(
		services.NewSessionStore(db.DB),
		services.NewItemStore(db.DB),
		cache,
	)
	Scheduler = services.NewNotificationScheduler()
}
