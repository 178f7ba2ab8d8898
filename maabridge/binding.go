package maabridge

import (
	"errors"
	"sync/atomic"

	"github.com/MaaXYZ/maa-framework-go/v4"
)

// ErrNotBound is returned by adapters used outside a running custom action.
var ErrNotBound = errors.New("no maa context bound")

// binding 保存当前正在执行的 custom action 的 Context，供各适配器使用。
// binding holds the Context of the custom action being run, so the frame
// source, pointer and OCR engine can reach the controller.
type binding struct {
	ctx atomic.Pointer[maa.Context]
}

func (b *binding) set(ctx *maa.Context) { b.ctx.Store(ctx) }

func (b *binding) clear() { b.ctx.Store(nil) }

func (b *binding) context() (*maa.Context, error) {
	ctx := b.ctx.Load()
	if ctx == nil {
		return nil, ErrNotBound
	}
	return ctx, nil
}

func (b *binding) controller() (*maa.Controller, error) {
	ctx, err := b.context()
	if err != nil {
		return nil, err
	}
	t := ctx.GetTasker()
	if t == nil {
		return nil, errors.New("context has no tasker")
	}
	ctrl := t.GetController()
	if ctrl == nil {
		return nil, errors.New("tasker has no controller")
	}
	return ctrl, nil
}

// stopping 检查任务是否正在停止或已停止。
// stopping reports whether the task is stopping or already stopped.
func stopping(ctx *maa.Context) bool {
	if ctx == nil {
		return true
	}
	t := ctx.GetTasker()
	if t == nil {
		return true
	}
	return t.Stopping() || !t.Running()
}
