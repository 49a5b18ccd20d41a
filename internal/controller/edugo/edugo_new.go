// =================================================================================
// This is auto-generated by GoFrame CLI tool only once. Fill this file as you wish.
// =================================================================================

package edugo

import (
	"github.com/Malowking/edugo/api/edugo"
	"github.com/Malowking/edugo/chart"
	"github.com/Malowking/edugo/internal/history"
	"github.com/Malowking/edugo/internal/logic/chat"
	"github.com/Malowking/edugo/internal/logic/export"
	"github.com/Malowking/edugo/nl2sql/service"
)

// Deps 控制器依赖，在启动时组装
type Deps struct {
	Router     *chat.Router
	Translator *service.Translator
	Charts     *chart.Generator
	Exporter   *export.Exporter
	History    history.Store
}

type ControllerV1 struct {
	deps Deps
}

func NewV1(deps Deps) edugo.IEdugoV1 {
	return &ControllerV1{deps: deps}
}
