package service

import (
	"errors"
	"sync"
	"time"

	"karrakolla-be/internal/broadcast"
	"karrakolla-be/internal/presenter"
	"karrakolla-be/internal/service/game"

	"go.uber.org/zap"
)

// 控制请求的投递和应答超时
const CTRL_TIMEOUT = 5 * time.Second

// SessionService 持有唯一的权威会话：一个引擎 goroutine、
// 事件广播器和主持人渲染器。
// 聊天消息和主持人控制调用都经由引擎的请求通道串行化，
// 这里不直接接触任何游戏状态。
type SessionService struct {
	events  *broadcast.Broadcaster
	screen  *presenter.Presenter
	machine *game.GameMachine
	reqCh   chan game.RequestWrapper

	doneCh    chan struct{}
	closeOnce sync.Once
}

func NewSessionService(joinCmd string, noticeTTL time.Duration) *SessionService {
	events := broadcast.NewBroadcaster()
	doneCh := make(chan struct{})

	machine := game.NewGameMachine(game.ShortID(), joinCmd, events.Publish, doneCh)

	// 引擎独占一个 goroutine，逐条处理请求
	go machine.Start()

	screen := presenter.NewPresenter(events, noticeTTL)

	return &SessionService{
		events:  events,
		screen:  screen,
		machine: machine,
		reqCh:   machine.GetReqCh(),
		doneCh:  doneCh,
	}
}

// Close 停止引擎事件循环并释放渲染器
func (ss *SessionService) Close() {
	ss.closeOnce.Do(func() {
		close(ss.doneCh)
		ss.screen.Close()
	})
}

// SubmitChat 把一条聊天消息投入引擎队列。
// 不等待处理结果：聊天指令的一切拒绝都是静默的。
func (ss *SessionService) SubmitChat(sender, text string) error {
	wrapper := game.RequestWrapper{
		ReqType: game.REQ_CHAT,
		Native:  &game.ChatRequest{Sender: sender, Text: text},
	}

	select {
	case ss.reqCh <- wrapper:
		return nil
	default:
		zap.L().Warn(
			"聊天消息投递失败：请求通道已满",
			zap.String("sender", sender),
		)
		return errors.New("会话繁忙，请稍后再试")
	}
}

// SelectPlayer 把行动权移交给指定玩家
func (ss *SessionService) SelectPlayer(playerID string) error {
	resCh := make(chan error, 1)

	wrapper := game.RequestWrapper{
		ReqType: game.REQ_SELECT_PLAYER,
		Native:  &game.SelectPlayerRequest{PlayerID: playerID, ResCh: resCh},
	}

	return ss.submitCtrl(wrapper, resCh)
}

// TriggerGun 在选格流程之外为指定玩家强制打开瞄准窗口
func (ss *SessionService) TriggerGun(playerID string) error {
	resCh := make(chan error, 1)

	wrapper := game.RequestWrapper{
		ReqType: game.REQ_TRIGGER_GUN,
		Native:  &game.TriggerGunRequest{PlayerID: playerID, ResCh: resCh},
	}

	return ss.submitCtrl(wrapper, resCh)
}

// Reset 清空整局会话，幂等
func (ss *SessionService) Reset() error {
	resCh := make(chan struct{}, 1)

	wrapper := game.RequestWrapper{
		ReqType: game.REQ_RESET,
		Native:  &game.ResetRequest{ResCh: resCh},
	}

	if err := ss.submit(wrapper); err != nil {
		return err
	}

	resTimer := time.NewTimer(CTRL_TIMEOUT)
	defer resTimer.Stop()

	select {
	case <-resCh:
		return nil
	case <-resTimer.C:
		zap.L().Warn("重置请求应答超时")
		return errors.New("重置会话失败")
	}
}

// Roster 读取全体玩家的快照，经由引擎队列保证与之前的请求有序
func (ss *SessionService) Roster() ([]game.Player, error) {
	resCh := make(chan []game.Player, 1)

	wrapper := game.RequestWrapper{
		ReqType: game.REQ_ROSTER,
		Native:  &game.RosterRequest{ResCh: resCh},
	}

	if err := ss.submit(wrapper); err != nil {
		return nil, err
	}

	resTimer := time.NewTimer(CTRL_TIMEOUT)
	defer resTimer.Stop()

	select {
	case players := <-resCh:
		return players, nil
	case <-resTimer.C:
		zap.L().Warn("名册查询应答超时")
		return nil, errors.New("查询名册失败")
	}
}

// Subscribe 注册一个观察者事件通道
func (ss *SessionService) Subscribe() chan game.ResponseWrapper {
	return ss.events.Subscribe()
}

func (ss *SessionService) Unsubscribe(ch chan game.ResponseWrapper) {
	ss.events.Unsubscribe(ch)
}

// Screen 返回主持人渲染状态快照
func (ss *SessionService) Screen() presenter.Screen {
	return ss.screen.Snapshot()
}

// Shuffle 主持人本地洗牌动作，不经过引擎
func (ss *SessionService) Shuffle() {
	ss.screen.Shuffle()
}

// submit 带超时地把请求投入引擎队列
func (ss *SessionService) submit(wrapper game.RequestWrapper) error {
	reqTimer := time.NewTimer(CTRL_TIMEOUT)
	defer reqTimer.Stop()

	select {
	case ss.reqCh <- wrapper:
		return nil
	case <-reqTimer.C:
		zap.L().Warn(
			"控制请求投递超时",
			zap.String("request_type", wrapper.ReqType),
		)
		return errors.New("会话繁忙，请稍后再试")
	}
}

// submitCtrl 投递控制请求并等待引擎应答
func (ss *SessionService) submitCtrl(wrapper game.RequestWrapper, resCh chan error) error {
	if err := ss.submit(wrapper); err != nil {
		return err
	}

	resTimer := time.NewTimer(CTRL_TIMEOUT)
	defer resTimer.Stop()

	select {
	case err := <-resCh:
		return err
	case <-resTimer.C:
		zap.L().Warn(
			"控制请求应答超时",
			zap.String("request_type", wrapper.ReqType),
		)
		return errors.New("会话繁忙，请稍后再试")
	}
}
