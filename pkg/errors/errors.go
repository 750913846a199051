// Package errors provides the error taxonomy shared by the product API client,
// the dashboard state container and the reference product service.
// It defines sentinel errors, typed wrappers carrying the failing operation,
// and helper functions for classifying failures.
//
// Package errors 提供产品API客户端、管理后台状态容器和参考产品服务共享的错误分类。
// 它定义了哨兵错误、携带失败操作的类型化包装器以及用于分类失败的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Standard errors returned across the module.
//
// 整个模块返回的标准错误。
var (
	// ErrNotFound is returned when the product does not exist.
	// 当产品不存在时返回ErrNotFound。
	ErrNotFound = errors.New("product: not found")

	// ErrTransport is returned when the request never produced an HTTP response.
	// 当请求未产生HTTP响应（网络故障）时返回ErrTransport。
	ErrTransport = errors.New("product: transport failure")

	// ErrUnexpectedStatus is returned for any non-2xx HTTP status.
	// 对于任何非2xx的HTTP状态返回ErrUnexpectedStatus。
	ErrUnexpectedStatus = errors.New("product: unexpected HTTP status")

	// ErrDecode is returned when a response body cannot be decoded.
	// 当响应体无法解码时返回ErrDecode。
	ErrDecode = errors.New("product: undecodable response")

	// ErrInvalidSizes is returned when sizes text is rejected in strict mode.
	// 在严格模式下拒绝尺码文本时返回ErrInvalidSizes。
	ErrInvalidSizes = errors.New("product: invalid sizes")

	// ErrInvalidPrice is returned when the edited price is not a number.
	// 当编辑的价格不是数字时返回ErrInvalidPrice。
	ErrInvalidPrice = errors.New("product: invalid price")

	// ErrInvalidProduct is returned when a product payload fails validation.
	// 当产品负载验证失败时返回ErrInvalidProduct。
	ErrInvalidProduct = errors.New("product: invalid product")

	// ErrUnknownField is returned when an edit targets a field that does not exist.
	// 当编辑的目标字段不存在时返回ErrUnknownField。
	ErrUnknownField = errors.New("dashboard: unknown edit field")

	// ErrNoEditSession is returned when an edit operation runs with no open session.
	// 当没有打开的编辑会话时执行编辑操作返回ErrNoEditSession。
	ErrNoEditSession = errors.New("dashboard: no edit session")

	// ErrNoPendingDelete is returned when a delete is confirmed with nothing pending.
	// 当没有待删除项时确认删除返回ErrNoPendingDelete。
	ErrNoPendingDelete = errors.New("dashboard: no pending delete")

	// ErrProductNotLoaded is returned when an id is not on the loaded page.
	// 当ID不在已加载的页面上时返回ErrProductNotLoaded。
	ErrProductNotLoaded = errors.New("dashboard: product not on the loaded page")
)

// StatusError reports a non-success HTTP status from the product API.
//
// StatusError 报告产品API返回的非成功HTTP状态。
type StatusError struct {
	Op         string // The failing operation, e.g. "list" / 失败的操作
	StatusCode int    // The HTTP status code / HTTP状态码
	Body       string // A truncated response body / 截断的响应体
}

// Error returns the error message.
//
// Error 返回错误消息。
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s: %d", ErrUnexpectedStatus, e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %d: %s", ErrUnexpectedStatus, e.Op, e.StatusCode, e.Body)
}

// Is makes errors.Is match ErrUnexpectedStatus for every status and
// ErrNotFound for 404.
//
// Is 使errors.Is对所有状态匹配ErrUnexpectedStatus，对404匹配ErrNotFound。
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnexpectedStatus:
		return true
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

// OpError wraps a failure with the operation that produced it.
//
// OpError 使用产生失败的操作包装错误。
type OpError struct {
	Op  string // The failing operation / 失败的操作
	Err error  // The underlying error / 底层错误
}

// Error returns the error message.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError.
//
// Parameters:
//   - op: The operation name
//   - err: The underlying error
//
// Returns:
//   - *OpError: A new operation error
func NewOpError(op string, err error) *OpError {
	return &OpError{Op: op, Err: err}
}

// IsNotFound returns true if the error is or wraps ErrNotFound.
//
// IsNotFound 如果错误是或包装了ErrNotFound，则返回true。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport returns true if the request failed before a response arrived.
//
// IsTransport 如果请求在响应到达之前失败，则返回true。
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsUnexpectedStatus returns true if the API answered with a non-2xx status.
//
// IsUnexpectedStatus 如果API以非2xx状态响应，则返回true。
func IsUnexpectedStatus(err error) bool {
	return errors.Is(err, ErrUnexpectedStatus)
}

// IsValidation returns true if the error comes from local input validation
// rather than from the remote store.
//
// IsValidation 如果错误来自本地输入验证而不是远程存储，则返回true。
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSizes) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrUnknownField)
}
