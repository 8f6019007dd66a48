// Package youtube is a minimal YouTube Data API v3 client covering the
// operations the collector needs: playlist search, playlist and channel
// lookup, playlist item pagination, and batched video detail fetches.
package youtube
