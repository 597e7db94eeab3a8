// Package poll drives the dashboard's refresh loop. A Controller watches the
// project list it is fed, runs a single repeating fetch timer while any
// project is queued or processing, and cancels it when none are. Fetch
// failures are logged and swallowed so transient backend hiccups never stop
// the loop.
package poll
