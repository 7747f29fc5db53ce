package clientstate

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// DiskStorage persists the key/value map as one JSON file, written
// atomically via tmp-file rename. Meant for single-node deployments
// without redis.
type DiskStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewDiskStorage(path string) *DiskStorage {
	d := &DiskStorage{path: path, values: make(map[string]string)}
	d.load()
	return d
}

func (d *DiskStorage) load() {
	file, err := os.Open(d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("client state load failed: %v", err)
		}
		return
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(&d.values); err != nil {
		// corrupt state is treated as empty, not fatal
		log.Printf("client state decode failed, starting empty: %v", err)
		d.values = make(map[string]string)
	}
}

func (d *DiskStorage) flushLocked() {
	tmpFileName := d.path + ".tmp"
	file, err := os.Create(tmpFileName)
	if err != nil {
		log.Printf("client state write failed: %v", err)
		return
	}
	err = json.NewEncoder(file).Encode(d.values)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Printf("client state write failed: %v", err)
		_ = os.Remove(tmpFileName)
		return
	}
	if err = os.Rename(tmpFileName, d.path); err != nil {
		log.Printf("client state rename failed: %v", err)
	}
}

func (d *DiskStorage) Get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.values[key]
	return v, ok
}

func (d *DiskStorage) Set(key string, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[key] = value
	d.flushLocked()
}

func (d *DiskStorage) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.values, key)
	d.flushLocked()
}
