package watcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"s-controller-sol/internal/config"
	"s-controller-sol/internal/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// AccountHandler 消费订阅到的账户更新
type AccountHandler interface {
	WatchedAccounts() []string
	HandleAccount(update *pb.SubscribeUpdateAccount) error
}

type AccountStreamManager struct {
	mu                sync.Mutex                // 保护连接状态
	conn              *grpc.ClientConn          // gRPC 连接对象
	client            pb.GeyserClient           // gRPC 客户端
	stream            pb.Geyser_SubscribeClient // gRPC 订阅流
	stopped           bool                      // 标记是否已经停止
	reconnectAttempts int                       // 已重连次数
	reconnectInterval time.Duration             // 重连基础间隔
	xToken            string                    // 认证用的 x-token
	pingInterval      time.Duration             // Stream 心跳包发送间隔
	sendTimeout       time.Duration             // gRPC 发送超时时间
	idleTimeout       time.Duration             // 超过该时间无任何消息则重连
	connCtx           context.Context           // 当前连接的 context
	connCancel        context.CancelFunc        // 当前连接的 cancel 函数
	handler           AccountHandler
}

func NewAccountStreamManager(grpcConf config.GrpcConfig, handler AccountHandler) (*AccountStreamManager, error) {
	configTls := &tls.Config{
		InsecureSkipVerify: true,
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(grpcConf.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		grpcConf.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(configTls)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(grpcConf.MaxCallSendMsgSize),
			grpc.MaxCallRecvMsgSize(grpcConf.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(grpcConf.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(grpcConf.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", grpcConf.Endpoint, err)
	}

	return &AccountStreamManager{
		conn:              conn,
		client:            pb.NewGeyserClient(conn),
		reconnectInterval: time.Duration(grpcConf.ReconnectIntervalSec) * time.Second,
		xToken:            grpcConf.XToken,
		pingInterval:      time.Duration(grpcConf.StreamPingIntervalSec) * time.Second,
		sendTimeout:       time.Duration(grpcConf.SendTimeoutSec) * time.Second,
		idleTimeout:       time.Duration(grpcConf.IdleTimeoutSec) * time.Second,
		handler:           handler,
	}, nil
}

func (m *AccountStreamManager) Start() {
	m.mustConnect()
}

func (m *AccountStreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
	}
}

// mustConnect 循环直到连接成功或已停止
func (m *AccountStreamManager) mustConnect() {
	for {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if m.reconnectAttempts > 0 {
			if m.reconnectAttempts > 3 {
				time.Sleep(m.reconnectInterval * 2)
			} else {
				time.Sleep(m.reconnectInterval)
			}
		}
		logger.Infof("[AccountStream] Connecting... Attempt %d", m.reconnectAttempts+1)
		m.reconnectAttempts++
		err := m.connect()
		if err == nil {
			return
		}
		logger.Warnf("[AccountStream] Connect failed: %v, will retry...", err)
	}
}

func buildSubscribeRequest(accounts []string) *pb.SubscribeRequest {
	filters := map[string]*pb.SubscribeRequestFilterAccounts{
		"registry": {Account: accounts},
	}
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Accounts:   filters,
		Commitment: &commitment,
	}
}

// connect 只尝试一次连接
func (m *AccountStreamManager) connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return errors.New("manager is stopped")
	}

	// 先关闭旧的 context，让旧 goroutine 退出
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.connCtx, m.connCancel = context.WithCancel(context.Background())

	metaCtx := metadata.NewOutgoingContext(
		m.connCtx,
		metadata.New(map[string]string{"x-token": m.xToken}),
	)
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	req := buildSubscribeRequest(m.handler.WatchedAccounts())
	if err := sendWithTimeout(m.connCtx, stream.Send, req, m.sendTimeout); err != nil {
		return fmt.Errorf("send subscribe request: %w", err)
	}

	m.stream = stream
	m.reconnectAttempts = 0
	logger.Infof("[AccountStream] Connection established, watching %v", req.Accounts["registry"].Account)

	go m.pingLoop(m.connCtx, stream)
	go m.recvLoop(m.connCtx, stream)
	return nil
}

func (m *AccountStreamManager) recvLoop(ctx context.Context, stream pb.Geyser_SubscribeClient) {
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		update, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				logger.Warnf("[AccountStream] Stream closed by server (EOF), will reconnect")
				m.reconnect()
				return
			}
			logger.Warnf("[AccountStream] Stream error: %v", err)
			if m.reconnectIfIdle(last) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		last = time.Now()

		if u, ok := update.GetUpdateOneof().(*pb.SubscribeUpdate_Account); ok {
			if err := m.handler.HandleAccount(u.Account); err != nil {
				logger.Errorf("[AccountStream] 处理账户更新失败: slot=%d err=%v", u.Account.GetSlot(), err)
			}
		}
	}
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}

// pingLoop 账户更新稀疏，依靠 ping/pong 维持流与空闲检测
func (m *AccountStreamManager) pingLoop(ctx context.Context, stream pb.Geyser_SubscribeClient) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()

	var id int32
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id++
			pingReq := &pb.SubscribeRequest{
				Ping: &pb.SubscribeRequestPing{Id: id},
			}
			if err := sendWithTimeout(ctx, stream.Send, pingReq, m.sendTimeout); err != nil {
				logger.Warnf("[AccountStream] Ping failed: %v", err)
			}
		}
	}
}

func (m *AccountStreamManager) reconnectIfIdle(last time.Time) bool {
	if time.Since(last) > m.idleTimeout {
		logger.Warnf("[AccountStream] %v 未收到任何消息，触发重连", m.idleTimeout)
		m.reconnect()
		return true
	}
	return false
}

func (m *AccountStreamManager) reconnect() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.mu.Unlock()

	go m.mustConnect()
}
