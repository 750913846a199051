package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// Edit form field names, as used by UpdateEditField.
const (
	FieldName        = "name"
	FieldPrice       = "price"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldOffer       = "offer"
	FieldSizes       = "sizes"
	FieldImage       = "image"
	FieldImageOne    = "imageOne"
	FieldImageTwo    = "imageTwo"
)

// EditFields lists the editable fields in form order.
var EditFields = []string{
	FieldName, FieldPrice, FieldDescription, FieldCategory, FieldOffer,
	FieldImage, FieldImageOne, FieldImageTwo, FieldSizes,
}

// EditBuffer is the draft of the product being edited. Price is kept as
// typed and only parsed on submit.
type EditBuffer struct {
	Name        string
	Price       string
	Description string
	Category    string
	Offer       string
	Image       string
	ImageOne    string
	ImageTwo    string
	Sizes       []catalog.SizeStock

	// SizesText is the last text entered for the sizes field.
	SizesText string
}

func newEditBuffer(p catalog.Product) *EditBuffer {
	sizes := make([]catalog.SizeStock, len(p.Sizes))
	copy(sizes, p.Sizes)
	return &EditBuffer{
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: p.Description,
		Category:    p.Category,
		Offer:       p.Offer.String(),
		Image:       p.Image,
		ImageOne:    p.ImageOne,
		ImageTwo:    p.ImageTwo,
		Sizes:       sizes,
		SizesText:   catalog.FormatSizes(sizes),
	}
}

// Clone returns a deep copy.
func (b *EditBuffer) Clone() *EditBuffer {
	if b == nil {
		return nil
	}
	out := *b
	out.Sizes = make([]catalog.SizeStock, len(b.Sizes))
	copy(out.Sizes, b.Sizes)
	return &out
}

// Field returns the current text of a field.
func (b *EditBuffer) Field(name string) (string, error) {
	switch name {
	case FieldName:
		return b.Name, nil
	case FieldPrice:
		return b.Price, nil
	case FieldDescription:
		return b.Description, nil
	case FieldCategory:
		return b.Category, nil
	case FieldOffer:
		return b.Offer, nil
	case FieldImage:
		return b.Image, nil
	case FieldImageOne:
		return b.ImageOne, nil
	case FieldImageTwo:
		return b.ImageTwo, nil
	case FieldSizes:
		return b.SizesText, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownField, name)
}

func (b *EditBuffer) set(name, value string, strict bool) error {
	switch name {
	case FieldName:
		b.Name = value
	case FieldPrice:
		b.Price = value
	case FieldDescription:
		b.Description = value
	case FieldCategory:
		b.Category = value
	case FieldOffer:
		b.Offer = value
	case FieldImage:
		b.Image = value
	case FieldImageOne:
		b.ImageOne = value
	case FieldImageTwo:
		b.ImageTwo = value
	case FieldSizes:
		if strict {
			sizes, err := catalog.ParseSizesStrict(value)
			if err != nil {
				return err
			}
			b.Sizes = sizes
		} else {
			b.Sizes = catalog.ParseSizes(value)
		}
		b.SizesText = value
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownField, name)
	}
	return nil
}

// product converts the buffer into the product sent with an update.
func (b *EditBuffer) product(id string) (catalog.Product, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(b.Price), 64)
	if err != nil || price < 0 {
		return catalog.Product{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPrice, b.Price)
	}

	sizes := make([]catalog.SizeStock, len(b.Sizes))
	copy(sizes, b.Sizes)
	return catalog.Product{
		ID:          id,
		Name:        b.Name,
		Price:       price,
		Description: b.Description,
		Category:    b.Category,
		Offer:       catalog.Offer(b.Offer),
		Image:       b.Image,
		ImageOne:    b.ImageOne,
		ImageTwo:    b.ImageTwo,
		Sizes:       sizes,
	}, nil
}
