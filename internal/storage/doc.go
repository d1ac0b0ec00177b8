// Package storage persists runs on disk, one directory per run holding
// metadata.json and trajectory.csv.
package storage
