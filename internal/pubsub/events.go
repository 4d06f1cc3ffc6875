package pubsub

import "context"

// 事件类型
const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Subscriber 由可以被订阅的事件源实现。
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType 标识事件的种类
	EventType string

	// Event 是一次带载荷的状态变化通知
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Publisher 由可以发布事件的组件实现
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)
