package edugo

import (
	"context"

	"github.com/Malowking/edugo/api/edugo/v1"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/internal/logic/chat"
	"github.com/Malowking/edugo/pkg/schema"
)

func (c *ControllerV1) Chat(ctx context.Context, req *v1.ChatReq) (res *v1.ChatRes, err error) {
	chatReq := &chat.Request{
		Message:    req.Message,
		SessionID:  req.SessionID,
		AdminToken: req.AdminToken,
	}
	for _, m := range req.ConversationHistory {
		if m == nil {
			continue
		}
		chatReq.History = append(chatReq.History, &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content})
	}

	resp := c.deps.Router.Handle(ctx, chatReq)

	res = &v1.ChatRes{
		Success:   resp.Success,
		Message:   resp.Message,
		DataType:  resp.DataType,
		SessionID: resp.SessionID,
	}
	if resp.Data != nil {
		res.Data = &v1.ChatData{
			Table:     resp.Data.Table,
			Columns:   resp.Data.Columns,
			Operation: resp.Data.Operation,
			SQL:       resp.Data.SQL,
		}
		if resp.Data.Chart != nil {
			res.Data.Chart = &v1.ChatChart{Type: resp.Data.Chart.Type, Data: resp.Data.Chart.Data}
		}
	}
	return res, nil
}

func (c *ControllerV1) ChatHistoryClear(ctx context.Context, req *v1.ChatHistoryClearReq) (res *v1.ChatHistoryClearRes, err error) {
	if c.deps.History == nil {
		return &v1.ChatHistoryClearRes{}, nil
	}
	if err := c.deps.History.Clear(ctx, req.SessionID); err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to clear history")
	}
	return &v1.ChatHistoryClearRes{}, nil
}
