package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siteship/siteship-cli/cmd"
	siteerrors "github.com/siteship/siteship-cli/internal/errors"
)

// interruptGrace 是收到中断后等待命令自行退出的时间。
const interruptGrace = 2 * time.Second

// main 为 CLI 入口，Ctrl+C 会取消正在进行的 API 请求。
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handleInterrupt(cancel)

	if err := cmd.ExecuteContext(ctx); err != nil {
		h := siteerrors.NewErrorHandler()
		code := h.ExitCode(err)
		if code == siteerrors.ExitCodeTimeout {
			// 使用 124 表示超时，符合 CLI 规范
			_, _ = fmt.Fprintln(os.Stderr, "Timeout exceeded")
		}
		_, _ = fmt.Fprint(os.Stderr, h.FormatError(err))
		os.Exit(code)
	}
}

// handleInterrupt cancels the command on SIGINT or SIGTERM. A prompt blocked
// on a line read does not observe the context, so the process exits after
// interruptGrace regardless.
func handleInterrupt(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		_, _ = fmt.Fprintln(os.Stderr, "\nInterrupted")
		cancel()
		time.Sleep(interruptGrace)
		os.Exit(siteerrors.ExitCodeInterrupted)
	}()
}
