// Package discovery locates git repositories beneath a directory tree.
//
// Scanner visits directories concurrently under a weighted semaphore, stops descending at
// repository roots, inspects their remotes and streams Event values to a single consumer.
package discovery
