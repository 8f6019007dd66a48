// Package notify sends push notifications about collection runs via ntfy.
// Without a configured topic every call is a no-op.
package notify
