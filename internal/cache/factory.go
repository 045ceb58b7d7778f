package cache

// MakeCache picks a snapshot backend: file-backed when a directory is
// configured, in-memory otherwise.
func MakeCache(dir string) Cache {
	if dir == "" {
		return NewInMemoryCache()
	}
	return NewFileCache(dir)
}
