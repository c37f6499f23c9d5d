package transport

import (
	"context"
	"net"
	"strconv"
)

// Server 可由 app.Application 管理生命周期的服务
type Server interface {
	// Run 启动服务并阻塞直到停止
	Run() error
	// Shutdown 优雅停止
	Shutdown(context.Context) error
}

// ValidateAddress 校验 host:port 形式的监听地址，host 可为空，端口 0 表示随机端口
func ValidateAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return false
	}
	return host == "" || net.ParseIP(host) != nil || validHostname(host)
}

func validHostname(host string) bool {
	if len(host) > 253 || host[0] == '-' || host[len(host)-1] == '-' {
		return false
	}
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}
