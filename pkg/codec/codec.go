// Package codec provides the serialization used on the product API wire and
// by the page cache when values leave the process (Redis).
// It offers JSON for HTTP bodies and Gob for compact cache entries.
//
// Package codec 提供产品API传输和页面缓存（Redis）离开进程时使用的序列化。
// 它为HTTP正文提供JSON，为紧凑的缓存条目提供Gob。
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec defines the interface for encoding and decoding values.
//
// Codec 定义了编码和解码值的接口。
type Codec interface {
	// Marshal serializes a value into bytes.
	//
	// Marshal 将值序列化为字节。
	//
	// Parameters:
	//   - value: The value to serialize
	//
	// Returns:
	//   - []byte: The serialized bytes
	//   - error: An error if serialization fails
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	// The value parameter should be a pointer to the target type.
	//
	// Unmarshal 将字节反序列化为值。
	// value参数应该是目标类型的指针。
	Unmarshal(data []byte, value interface{}) error

	// Name returns the name of this codec.
	//
	// Name 返回此编解码器的名称。
	Name() string

	// ContentType returns the MIME type sent in Content-Type and Accept headers.
	//
	// ContentType 返回在Content-Type和Accept头中发送的MIME类型。
	ContentType() string
}

// JSONCodec implements Codec using JSON serialization.
//
// JSONCodec 使用JSON序列化实现Codec。
type JSONCodec struct {
	// Pretty determines whether to use indented JSON encoding.
	// Pretty 决定是否使用缩进的JSON编码。
	Pretty bool
}

// Marshal serializes a value into JSON bytes.
//
// Marshal 将值序列化为JSON字节。
func (c *JSONCodec) Marshal(value interface{}) ([]byte, error) {
	if c.Pretty {
		return json.MarshalIndent(value, "", "  ")
	}
	return json.Marshal(value)
}

// Unmarshal deserializes JSON bytes into a value.
//
// Unmarshal 将JSON字节反序列化为值。
func (c *JSONCodec) Unmarshal(data []byte, value interface{}) error {
	return json.Unmarshal(data, value)
}

// Name returns "json".
func (c *JSONCodec) Name() string {
	return "json"
}

// ContentType returns "application/json".
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// NewJSONCodec creates a new JSON codec.
//
// NewJSONCodec 创建一个新的JSON编解码器。
func NewJSONCodec(pretty bool) *JSONCodec {
	return &JSONCodec{Pretty: pretty}
}

// GobCodec implements Codec using encoding/gob.
// Values must be registered with gob if they are sent as interfaces.
//
// GobCodec 使用encoding/gob实现Codec。
type GobCodec struct{}

// Marshal serializes a value with gob.
//
// Marshal 使用gob序列化值。
func (c *GobCodec) Marshal(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes gob bytes into a value.
//
// Unmarshal 将gob字节反序列化为值。
func (c *GobCodec) Unmarshal(data []byte, value interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(value); err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}
	return nil
}

// Name returns "gob".
func (c *GobCodec) Name() string {
	return "gob"
}

// ContentType returns "application/x-gob".
func (c *GobCodec) ContentType() string {
	return "application/x-gob"
}

// NewGobCodec creates a new Gob codec.
//
// NewGobCodec 创建一个新的Gob编解码器。
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// DefaultCodec returns the codec used when none is configured (compact JSON).
//
// DefaultCodec 返回未配置时使用的编解码器（紧凑JSON）。
func DefaultCodec() Codec {
	return NewJSONCodec(false)
}

// GetCodec returns a codec by name.
//
// GetCodec 按名称返回编解码器。
//
// Parameters:
//   - name: "json" or "gob"
//
// Returns:
//   - Codec: The codec
//   - error: An error if the name is unknown
func GetCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return NewJSONCodec(false), nil
	case "gob":
		return NewGobCodec(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}
