// Package blueprint holds the components and archetypes that describe how
// recorded data is laid out in the viewer: panels, containers, views and
// their per-view settings.
package blueprint

import (
	"fmt"

	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// PanelState is the display state of a side panel.
type PanelState uint8

const (
	PanelHidden    PanelState = 1
	PanelCollapsed PanelState = 2
	PanelExpanded  PanelState = 3
)

// ContainerKind is the layout strategy of a container.
type ContainerKind uint8

const (
	ContainerTabs       ContainerKind = 1
	ContainerHorizontal ContainerKind = 2
	ContainerVertical   ContainerKind = 3
	ContainerGrid       ContainerKind = 4
)

// BackgroundKind is the fill of a 3D view background.
type BackgroundKind uint8

const (
	BackgroundGradientDark   BackgroundKind = 1
	BackgroundGradientBright BackgroundKind = 2
	BackgroundSolidColor     BackgroundKind = 3
)

// Corner2D is a corner of a 2D view, used to anchor the plot legend.
type Corner2D uint8

const (
	CornerLeftTop     Corner2D = 1
	CornerRightTop    Corner2D = 2
	CornerLeftBottom  Corner2D = 3
	CornerRightBottom Corner2D = 4
)

var panelStateNames = map[PanelState]string{
	PanelHidden: "hidden", PanelCollapsed: "collapsed", PanelExpanded: "expanded",
}

var containerKindNames = map[ContainerKind]string{
	ContainerTabs: "tabs", ContainerHorizontal: "horizontal", ContainerVertical: "vertical", ContainerGrid: "grid",
}

var backgroundKindNames = map[BackgroundKind]string{
	BackgroundGradientDark: "gradient_dark", BackgroundGradientBright: "gradient_bright", BackgroundSolidColor: "solid_color",
}

var corner2DNames = map[Corner2D]string{
	CornerLeftTop: "left_top", CornerRightTop: "right_top", CornerLeftBottom: "left_bottom", CornerRightBottom: "right_bottom",
}

func (p PanelState) String() string     { return enumString(panelStateNames, p) }
func (k ContainerKind) String() string  { return enumString(containerKindNames, k) }
func (k BackgroundKind) String() string { return enumString(backgroundKindNames, k) }
func (c Corner2D) String() string       { return enumString(corner2DNames, c) }

func enumString[E ~uint8](names map[E]string, v E) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", uint8(v))
}

// parseEnum resolves a lower-case name from names.
func parseEnum[E ~uint8](what string, names map[E]string, s string) (E, error) {
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

// ParsePanelState accepts "hidden", "collapsed" or "expanded".
func ParsePanelState(s string) (PanelState, error) {
	return parseEnum("panel state", panelStateNames, s)
}

// ParseContainerKind accepts "tabs", "horizontal", "vertical" or "grid".
func ParseContainerKind(s string) (ContainerKind, error) {
	return parseEnum("container kind", containerKindNames, s)
}

// ParseBackgroundKind accepts "gradient_dark", "gradient_bright" or
// "solid_color".
func ParseBackgroundKind(s string) (BackgroundKind, error) {
	return parseEnum("background kind", backgroundKindNames, s)
}

// ParseCorner2D accepts "left_top", "right_top", "left_bottom" or
// "right_bottom".
func ParseCorner2D(s string) (Corner2D, error) {
	return parseEnum("corner", corner2DNames, s)
}

// ViewClass names the kind of space view, e.g. "Spatial3D".
type ViewClass datatypes.Utf8

// QueryExpression is one include or exclude rule of a view's contents,
// e.g. "+ /world/**" or "- /world/debug".
type QueryExpression datatypes.Utf8

// SpaceViewOrigin is the entity a view is rooted at.
type SpaceViewOrigin datatypes.EntityPath

// IncludedContent is a child of a container: the entity path of a
// container or view blueprint.
type IncludedContent datatypes.EntityPath

// ActiveTab is the selected child of a tabs container.
type ActiveTab datatypes.EntityPath

// RootContainer is the id of the top-level container.
type RootContainer datatypes.UUID

// SpaceViewMaximized is the id of the view that fills the viewport.
type SpaceViewMaximized datatypes.UUID

// Visible toggles whether a container, view or legend is shown.
type Visible datatypes.Bool

// AutoLayout lets the viewer rearrange containers.
type AutoLayout datatypes.Bool

// AutoSpaceViews lets the viewer add views for new data.
type AutoSpaceViews datatypes.Bool

// LockRangeDuringZoom pins the scalar axis range while zooming.
type LockRangeDuringZoom datatypes.Bool

// GridColumns is the column count of a grid container.
type GridColumns datatypes.UInt32

// ColumnShare is the relative width of a container column.
type ColumnShare datatypes.Float32

// RowShare is the relative height of a container row.
type RowShare datatypes.Float32

// ViewerRecommendationHash records a view recommendation the viewer has
// already applied.
type ViewerRecommendationHash datatypes.UInt64

// VisibleTimeRange is the time span shown by a view for one timeline.
type VisibleTimeRange datatypes.VisibleTimeRange

var (
	PanelStateLoggable = types.NewEnumLoggable("vr.blueprint.components.PanelState", func(p PanelState) bool {
		_, ok := panelStateNames[p]
		return ok
	})
	ContainerKindLoggable = types.NewEnumLoggable("vr.blueprint.components.ContainerKind", func(k ContainerKind) bool {
		_, ok := containerKindNames[k]
		return ok
	})
	BackgroundKindLoggable = types.NewEnumLoggable("vr.blueprint.components.BackgroundKind", func(k BackgroundKind) bool {
		_, ok := backgroundKindNames[k]
		return ok
	})
	Corner2DLoggable = types.NewEnumLoggable("vr.blueprint.components.Corner2D", func(c Corner2D) bool {
		_, ok := corner2DNames[c]
		return ok
	})

	ViewClassLoggable                = types.Rename[ViewClass]("vr.blueprint.components.ViewClass", datatypes.Utf8Loggable)
	QueryExpressionLoggable          = types.Rename[QueryExpression]("vr.blueprint.components.QueryExpression", datatypes.Utf8Loggable)
	SpaceViewOriginLoggable          = types.Rename[SpaceViewOrigin]("vr.blueprint.components.SpaceViewOrigin", datatypes.EntityPathLoggable)
	IncludedContentLoggable          = types.Rename[IncludedContent]("vr.blueprint.components.IncludedContent", datatypes.EntityPathLoggable)
	ActiveTabLoggable                = types.Rename[ActiveTab]("vr.blueprint.components.ActiveTab", datatypes.EntityPathLoggable)
	RootContainerLoggable            = types.Rename[RootContainer]("vr.blueprint.components.RootContainer", datatypes.UUIDLoggable)
	SpaceViewMaximizedLoggable       = types.Rename[SpaceViewMaximized]("vr.blueprint.components.SpaceViewMaximized", datatypes.UUIDLoggable)
	VisibleLoggable                  = types.Rename[Visible]("vr.blueprint.components.Visible", datatypes.BoolLoggable)
	AutoLayoutLoggable               = types.Rename[AutoLayout]("vr.blueprint.components.AutoLayout", datatypes.BoolLoggable)
	AutoSpaceViewsLoggable           = types.Rename[AutoSpaceViews]("vr.blueprint.components.AutoSpaceViews", datatypes.BoolLoggable)
	LockRangeDuringZoomLoggable      = types.Rename[LockRangeDuringZoom]("vr.blueprint.components.LockRangeDuringZoom", datatypes.BoolLoggable)
	GridColumnsLoggable              = types.Rename[GridColumns]("vr.blueprint.components.GridColumns", datatypes.UInt32Loggable)
	ColumnShareLoggable              = types.Rename[ColumnShare]("vr.blueprint.components.ColumnShare", datatypes.Float32Loggable)
	RowShareLoggable                 = types.Rename[RowShare]("vr.blueprint.components.RowShare", datatypes.Float32Loggable)
	ViewerRecommendationHashLoggable = types.Rename[ViewerRecommendationHash]("vr.blueprint.components.ViewerRecommendationHash", datatypes.UInt64Loggable)
	VisibleTimeRangeLoggable         = types.Rename[VisibleTimeRange]("vr.blueprint.components.VisibleTimeRange", datatypes.VisibleTimeRangeLoggable)
)
