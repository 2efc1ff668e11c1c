package main

import (
	"flag"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"s-controller-sol/internal/config"
	"s-controller-sol/internal/logic/watcher"
	"s-controller-sol/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/controller.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.ControllerConfig
	config.MustLoad(*configFile, &c)

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		panic(err)
	}
	defer serviceContext.Close()

	handler := watcher.NewRegistryHandler(serviceContext.Pdas, serviceContext.RegistryCache, serviceContext.AccountCache)
	stream, err := watcher.NewAccountStreamManager(c.Grpc, handler)
	if err != nil {
		panic(err)
	}

	sg := zerosvc.NewServiceGroup()
	sg.Add(stream)

	logx.Infof("Starting registry watcher, program=%s", serviceContext.ProgramID)

	// Start 会阻塞直到所有服务的 Start 返回，放到后台
	go sg.Start()

	// 等待退出信号
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logx.Info("Shutting down services...")
	sg.Stop()
}
