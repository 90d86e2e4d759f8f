package server

import "github.com/google/uuid"

// TokenSource 为页面渲染提供防伪 token。token 的校验由外层基础设施负责，
// 这里只要求每次渲染取到一个新值。
type TokenSource interface {
	Token() string
}

type uuidTokenSource struct{}

func (uuidTokenSource) Token() string {
	return uuid.NewString()
}

// UUIDTokenSource 返回基于随机 UUID 的默认实现。
func UUIDTokenSource() TokenSource {
	return uuidTokenSource{}
}
