// Package catalog defines the product model shared by the admin dashboard,
// the public storefront and the reference product API.
//
// Package catalog 定义管理后台、公共店面和参考产品API共享的产品模型。
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product is a sellable catalog item as exchanged with the product API.
// The identifier is issued by the server and travels as "_id" on the wire.
// Every field is always encoded so an update can clear a value.
//
// Product 是与产品API交换的可销售目录项。
// 标识符由服务器签发，在传输中以"_id"字段出现。
// 所有字段始终编码，以便更新时可以清空某个值。
type Product struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Offer       Offer       `json:"offer"`
	Image       string      `json:"image"`
	ImageOne    string      `json:"imageOne"`
	ImageTwo    string      `json:"imageTwo"`
	Sizes       []SizeStock `json:"sizes"`
}

// SizeStock maps one size label to its remaining stock.
//
// SizeStock 将一个尺码标签映射到其剩余库存。
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// TotalStock returns the sum of stock across all size variants.
// This is the figure every view displays as the product's stock.
//
// TotalStock 返回所有尺码变体的库存总和。
// 这是每个视图显示为产品库存的数值。
//
// Returns:
//   - int: The summed stock
func (p Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}
	return total
}

// Clone returns a deep copy of the product so callers can mutate the sizes
// slice without touching shared state.
//
// Clone 返回产品的深拷贝，调用者可以修改尺码切片而不影响共享状态。
func (p Product) Clone() Product {
	out := p
	if p.Sizes != nil {
		out.Sizes = make([]SizeStock, len(p.Sizes))
		copy(out.Sizes, p.Sizes)
	}
	return out
}

// CloneProducts deep-copies a product slice. A nil input stays nil.
func CloneProducts(in []Product) []Product {
	if in == nil {
		return nil
	}
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// Offer is a discount code. The API sends it either as a JSON string or as a
// number; it is always kept and re-encoded as a string.
//
// Offer 是折扣代码。API可能以JSON字符串或数字发送；本地始终以字符串保存和编码。
type Offer string

// UnmarshalJSON accepts a string, a number or null.
//
// UnmarshalJSON 接受字符串、数字或null。
func (o *Offer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Offer(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("offer must be a string or a number: %w", err)
	}
	*o = Offer(n.String())
	return nil
}

// String implements fmt.Stringer.
func (o Offer) String() string {
	return string(o)
}
