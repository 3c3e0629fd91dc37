package broadcast

import (
	"sync"

	"karrakolla-be/internal/service/game"

	"go.uber.org/zap"
)

// Broadcaster 把引擎事件按产生顺序扇出给所有在线观察者。
// 不做持久化和回放，中途接入的观察者通过名册查询自行补齐状态。
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan game.ResponseWrapper]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan game.ResponseWrapper]struct{}),
	}
}

// Subscribe 注册一个新观察者，返回其事件通道
func (b *Broadcaster) Subscribe() chan game.ResponseWrapper {
	ch := make(chan game.ResponseWrapper, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch
}

// Unsubscribe 移除观察者并关闭其通道
func (b *Broadcaster) Unsubscribe(ch chan game.ResponseWrapper) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish 向所有观察者投递一条事件，每个观察者至多收到一次。
// 投递不阻塞引擎：通道已满的观察者直接丢弃该条事件。
func (b *Broadcaster) Publish(resp game.ResponseWrapper) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- resp:
		default:
			zap.L().Warn(
				"投递事件失败：观察者通道已满",
				zap.String("event_type", resp.RespType),
			)
		}
	}
	b.mu.Unlock()
}
