package maabridge

import (
	"fmt"
	"html"
	"strings"

	"github.com/MaaXYZ/maa-framework-go/v4"
	"github.com/bytedance/sonic"

	"github.com/AtlasScout/AtlasScout/agent/go-service/pkg/maafocus"
	"github.com/AtlasScout/AtlasScout/agent/go-service/scanner"
)

// ScanParam is the custom_action_param of the scan actions.
type ScanParam struct {
	// Silent suppresses the UI focus messages.
	Silent bool `json:"silent"`
}

func parseScanParam(raw string) (ScanParam, error) {
	var p ScanParam
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	if err := sonic.UnmarshalString(raw, &p); err != nil {
		return p, fmt.Errorf("parse custom action param: %w", err)
	}
	return p, nil
}

// ScanScreenAction 扫描整个地图界面。
// ScanScreenAction scans every map icon on screen.
type ScanScreenAction struct {
	svc *Service
}

func (a *ScanScreenAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	return runScan(a.svc, ctx, arg, scanner.ModeScreen)
}

// ScanHoveredAction 只识别鼠标下方的地图。
// ScanHoveredAction reads the map under the cursor.
type ScanHoveredAction struct {
	svc *Service
}

func (a *ScanHoveredAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	return runScan(a.svc, ctx, arg, scanner.ModeHovered)
}

func runScan(svc *Service, ctx *maa.Context, arg *maa.CustomActionArg, mode scanner.Mode) bool {
	if stopping(ctx) {
		return true
	}
	param, err := parseScanParam(arg.CustomActionParam)
	if err != nil {
		logger().Error().Err(err).Str("mode", string(mode)).Msg("invalid scan param")
		return false
	}
	svc.scan(ctx, mode, param)
	return true
}

// ReloadAction re-reads templates, icons and the catalog.
type ReloadAction struct {
	svc *Service
}

func (a *ReloadAction) Run(ctx *maa.Context, _ *maa.CustomActionArg) bool {
	if err := a.svc.Reload(); err != nil {
		logger().Error().Err(err).Msg("reload failed")
		_ = maafocus.Show(ctx, maafocus.Span("Atlas Scout: reload failed", "#ff4d4f"))
		return false
	}
	_ = maafocus.Showf(ctx, "Atlas Scout: resources reloaded")
	return true
}

// FavoriteParam is the custom_action_param of AtlasFavorite. An empty Map
// means the map under the cursor; a missing Favorite means true.
type FavoriteParam struct {
	Map      string `json:"map"`
	Favorite *bool  `json:"favorite"`
}

func parseFavoriteParam(raw string) (FavoriteParam, error) {
	var p FavoriteParam
	if strings.TrimSpace(raw) == "" {
		return p, nil
	}
	if err := sonic.UnmarshalString(raw, &p); err != nil {
		return p, fmt.Errorf("parse custom action param: %w", err)
	}
	return p, nil
}

// FavoriteAction 收藏或取消收藏地图。
// FavoriteAction marks a map as favourite, or clears it.
type FavoriteAction struct {
	svc *Service
}

func (a *FavoriteAction) Run(ctx *maa.Context, arg *maa.CustomActionArg) bool {
	if stopping(ctx) {
		return true
	}
	param, err := parseFavoriteParam(arg.CustomActionParam)
	if err != nil {
		logger().Error().Err(err).Msg("invalid favourite param")
		return false
	}
	favorite := param.Favorite == nil || *param.Favorite

	name := strings.TrimSpace(param.Map)
	if name == "" {
		obs := a.svc.scan(ctx, scanner.ModeHovered, ScanParam{Silent: true})
		if len(obs) == 0 {
			_ = maafocus.Showf(ctx, "Atlas Scout: no map under the cursor")
			return false
		}
		name = obs[0].MapName
	}

	if err := a.svc.SetFavorite(name, favorite); err != nil {
		logger().Error().Err(err).Str("map", name).Msg("failed to update favourites")
		_ = maafocus.Show(ctx, maafocus.Span("Atlas Scout: "+err.Error(), "#ff4d4f"))
		return false
	}
	verb := "added to"
	if !favorite {
		verb = "removed from"
	}
	_ = maafocus.Showf(ctx, "Atlas Scout: %s %s favourites", name, verb)
	return true
}

// SummaryHTML lists the accepted maps, each in its layout colour.
func SummaryHTML(mode scanner.Mode, obs []scanner.Observation) string {
	if len(obs) == 0 {
		return maafocus.Span(fmt.Sprintf("Atlas Scout: no maps accepted (%s)", mode), "#999999")
	}

	var b strings.Builder
	b.WriteString(maafocus.Span(fmt.Sprintf("Atlas Scout: %d map(s) accepted (%s)", len(obs), mode), ""))
	for _, o := range obs {
		b.WriteString("<br/>")
		text := o.MapName
		if o.Layout != "" {
			text += " [" + o.Layout + "]"
		}
		if o.IsFavorite {
			text = "★ " + text
		}
		b.WriteString(maafocus.Span(text, o.Color))
		if len(o.Activities) > 0 {
			names := make([]string, len(o.Activities))
			for i, a := range o.Activities {
				names[i] = a.Name
			}
			b.WriteString(" " + html.EscapeString(strings.Join(names, ", ")))
		}
	}
	return b.String()
}
