package catalog

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
)

// LoadFile stream-decodes a gzipped JSON product dump into the repository.
// The file holds one product object per JSON value, not an array.
func (r *MemoryRepository) LoadFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	decoder := json.NewDecoder(zipReader)
	count := 0
	for {
		var tmp Product
		if err = decoder.Decode(&tmp); err != nil {
			break
		}
		r.UpsertProducts(tmp)
		count++
	}
	log.Printf("Loaded %d products from %s", count, fileName)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// SaveFile writes the current product set as a gzipped JSON stream,
// atomically via a tmp file rename.
func (r *MemoryRepository) SaveFile(fileName string) error {
	tmpFileName := fileName + ".tmp"
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(zipWriter)

	r.mu.RLock()
	for i := range r.products {
		if err = enc.Encode(&r.products[i]); err != nil {
			break
		}
	}
	r.mu.RUnlock()

	if cerr := zipWriter.Close(); err == nil {
		err = cerr
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return os.Rename(tmpFileName, fileName)
}
