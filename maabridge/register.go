package maabridge

import "github.com/MaaXYZ/maa-framework-go/v4"

// Custom action names as referenced from the pipeline.
const (
	ActionScanScreen  = "AtlasScanScreen"
	ActionScanHovered = "AtlasScanHovered"
	ActionReload      = "AtlasReload"
	ActionFavorite    = "AtlasFavorite"
)

// Register registers the custom actions backed by svc.
func Register(svc *Service) {
	maa.AgentServerRegisterCustomAction(ActionScanScreen, &ScanScreenAction{svc: svc})
	maa.AgentServerRegisterCustomAction(ActionScanHovered, &ScanHoveredAction{svc: svc})
	maa.AgentServerRegisterCustomAction(ActionReload, &ReloadAction{svc: svc})
	maa.AgentServerRegisterCustomAction(ActionFavorite, &FavoriteAction{svc: svc})
	logger().Info().Msg("registered custom actions")
}
