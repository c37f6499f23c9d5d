package response

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/authkit/errors"
)

const defaultSuccessMessage = "success"

// Response 统一响应体。成功时 Code 为 HTTP 状态码，失败时为错误码并附带 Reason。
type Response struct {
	Code     int               `json:"code"`
	Reason   string            `json:"reason,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Data     any               `json:"data,omitempty"`
}

func (r *Response) reset() {
	r.Code = 0
	r.Reason = ""
	r.Message = ""
	r.Metadata = nil
	r.Data = nil
}

var responsePool = sync.Pool{
	New: func() any {
		return &Response{}
	},
}

func acquire() *Response {
	return responsePool.Get().(*Response)
}

func release(r *Response) {
	r.reset()
	responsePool.Put(r)
}

// JSON 写入 200 成功响应
func JSON(c *gin.Context, data any) {
	write(c, http.StatusOK, data)
}

// Created 写入 201 成功响应
func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, data)
}

func write(c *gin.Context, status int, data any) {
	resp := acquire()
	defer release(resp)

	resp.Code = status
	resp.Message = defaultSuccessMessage
	resp.Data = data
	c.JSON(status, resp)
}

// Error 写入错误响应并中止后续处理。
// HTTP 状态码取自错误码；未分类的错误按 500 返回，原始错误只记录到 gin 上下文。
func Error(c *gin.Context, err error) {
	defer c.Abort()

	resp := acquire()
	defer release(resp)

	e := errors.FromError(err)
	status := Status(err)
	if e == nil || e.Reason == errors.UnknownReason || status == http.StatusInternalServerError {
		if err != nil {
			_ = c.Error(err)
		}
		e = errors.ErrInternal
	}

	resp.Code = status
	resp.Reason = e.Reason
	resp.Message = e.Message
	resp.Metadata = e.Metadata
	c.JSON(status, resp)
}

// Status 返回 err 对应的 HTTP 状态码
func Status(err error) int {
	code := errors.Code(err)
	if code < 400 || code > 599 {
		return http.StatusInternalServerError
	}
	return code
}
