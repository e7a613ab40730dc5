// Package mongo provides MongoDB client initialization and the document-store
// implementation of the user.Store interface.
//
// Connection setup wraps the official driver with application-level retry
// logic so brief network hiccups or Atlas cold starts don't fail application
// startup. Configuration is environment-based:
//
//	MONGODB_URL             (required)
//	MONGODB_CONNECT_TIMEOUT (default: 10s)
//	MONGODB_RETRY_ATTEMPTS  (default: 3)
//	MONGODB_RETRY_INTERVAL  (default: 5s)
//	MONGODB_DATABASE        (default: chatkit)
//
// Basic usage:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	users := mongo.NewUserStore(db)
//	if err := users.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
package mongo
