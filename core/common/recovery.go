package common

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/gogf/gf/v2/frame/g"
)

// RecoverPanic 通用 panic 恢复函数
// 在 defer 中调用，捕获并记录 panic 信息（包含完整堆栈）
func RecoverPanic(ctx context.Context, taskName string) {
	if r := recover(); r != nil {
		logPanic(ctx, taskName, r)
	}
}

// SafeGo 安全启动 goroutine
// 自动捕获 panic 并记录，避免 goroutine 崩溃导致程序不稳定
//
// 使用示例:
//
//	SafeGo(ctx, "archive-chart", func() {
//	    // 你的任务代码
//	})
func SafeGo(ctx context.Context, taskName string, fn func()) {
	go func() {
		defer RecoverPanic(ctx, taskName)
		fn()
	}()
}

// SafeCall 同步执行 fn，panic 被转换为错误返回
func SafeCall(ctx context.Context, taskName string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logPanic(ctx, taskName, r)
			err = fmt.Errorf("panic in task %s: %v", taskName, r)
		}
	}()
	return fn()
}

func logPanic(ctx context.Context, taskName string, r any) {
	// 获取完整堆栈信息
	stack := debug.Stack()
	g.Log().Criticalf(ctx,
		"[PANIC RECOVERED] Task: %s\nError: %v\nStack Trace:\n%s",
		taskName, r, string(stack))
}
