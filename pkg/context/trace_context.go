package context

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// 上下文键类型
type contextKey string

const (
	// 业务相关的上下文键
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"

	// 服务相关的上下文键
	ServiceNameKey contextKey = "service_name"
	ClientIPKey    contextKey = "client_ip"
)

// GenerateRequestID 生成请求ID
func GenerateRequestID() string {
	return uuid.New().String()
}

// WithRequestID 在context中设置RequestID，为空时自动生成
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID 从context中获取RequestID
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithUserID 在context中设置UserID
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID 从context中获取UserID，未设置时返回0
func GetUserID(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	switch v := ctx.Value(UserIDKey).(type) {
	case int64:
		return v
	case string:
		if userID, err := strconv.ParseInt(v, 10, 64); err == nil {
			return userID
		}
	}
	return 0
}

// WithServiceName 在context中设置服务名
func WithServiceName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, name)
}

// GetServiceName 从context中获取服务名
func GetServiceName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if name, ok := ctx.Value(ServiceNameKey).(string); ok {
		return name
	}
	return ""
}

// WithClientIP 在context中设置客户端IP
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

// GetClientIP 从context中获取客户端IP
func GetClientIP(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}
