//go:build !jsonstd

package jsoncompat

import "github.com/bytedance/sonic"

// Marshal proxies to sonic unless the jsonstd build tag is present.
func Marshal(v any) ([]byte, error) { return sonic.Marshal(v) }

// Unmarshal proxies to sonic unless the jsonstd build tag is present.
func Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }
