// Package timeline holds the output track of a render and the additive mixer
// and global limiter that operate on it.
package timeline
