// Package redis provides Redis client initialization with connection
// verification. The server uses it for the session token denylist.
//
// Connect validates the URL, pings with retries to ride out cold starts,
// and returns a ready client:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
