package blueprint

import (
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/components"
)

const archetypePrefix = "vr.blueprint.archetypes."

// PanelBlueprint is the state of one of the side panels.
type PanelBlueprint struct {
	State *PanelState
}

func (PanelBlueprint) ArchetypeName() string { return archetypePrefix + "PanelBlueprint" }

func (a PanelBlueprint) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Optional(types.Maybe(PanelStateLoggable, a.State)).
		Build()
}

// ContainerBlueprint is a node of the viewport layout tree.
type ContainerBlueprint struct {
	Kind         ContainerKind
	DisplayName  *components.Name
	Contents     []IncludedContent
	ColumnShares []ColumnShare
	RowShares    []RowShare
	ActiveTab    *ActiveTab
	Visible      *Visible
	GridColumns  *GridColumns
}

func (ContainerBlueprint) ArchetypeName() string { return archetypePrefix + "ContainerBlueprint" }

func (a ContainerBlueprint) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(ContainerKindLoggable, []ContainerKind{a.Kind})).
		Optional(types.Maybe(components.NameLoggable, a.DisplayName)).
		Unchecked(types.Many(IncludedContentLoggable, a.Contents)).
		Unchecked(types.Many(ColumnShareLoggable, a.ColumnShares)).
		Unchecked(types.Many(RowShareLoggable, a.RowShares)).
		Optional(types.Maybe(ActiveTabLoggable, a.ActiveTab)).
		Optional(types.Maybe(VisibleLoggable, a.Visible)).
		Optional(types.Maybe(GridColumnsLoggable, a.GridColumns)).
		Build()
}

// SpaceViewBlueprint is a single view of the viewport.
type SpaceViewBlueprint struct {
	Class       ViewClass
	DisplayName *components.Name
	SpaceOrigin *SpaceViewOrigin
	Visible     *Visible
}

func (SpaceViewBlueprint) ArchetypeName() string { return archetypePrefix + "SpaceViewBlueprint" }

func (a SpaceViewBlueprint) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(ViewClassLoggable, []ViewClass{a.Class})).
		Optional(types.Maybe(components.NameLoggable, a.DisplayName)).
		Optional(types.Maybe(SpaceViewOriginLoggable, a.SpaceOrigin)).
		Optional(types.Maybe(VisibleLoggable, a.Visible)).
		Build()
}

// SpaceViewContents is the query selecting the entities a view shows.
type SpaceViewContents struct {
	Query []QueryExpression
}

func (SpaceViewContents) ArchetypeName() string { return archetypePrefix + "SpaceViewContents" }

func (a SpaceViewContents) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Unchecked(types.Many(QueryExpressionLoggable, a.Query)).
		Build()
}

// ViewportBlueprint is the top level of the layout.
type ViewportBlueprint struct {
	RootContainer             *RootContainer
	Maximized                 *SpaceViewMaximized
	AutoLayout                *AutoLayout
	AutoSpaceViews            *AutoSpaceViews
	PastViewerRecommendations []ViewerRecommendationHash
}

func (ViewportBlueprint) ArchetypeName() string { return archetypePrefix + "ViewportBlueprint" }

func (a ViewportBlueprint) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Optional(types.Maybe(RootContainerLoggable, a.RootContainer)).
		Optional(types.Maybe(SpaceViewMaximizedLoggable, a.Maximized)).
		Optional(types.Maybe(AutoLayoutLoggable, a.AutoLayout)).
		Optional(types.Maybe(AutoSpaceViewsLoggable, a.AutoSpaceViews)).
		Unchecked(types.Many(ViewerRecommendationHashLoggable, a.PastViewerRecommendations)).
		Build()
}

// Background configures the backdrop of a 3D view.
type Background struct {
	Kind  BackgroundKind
	Color *components.Color
}

func (Background) ArchetypeName() string { return archetypePrefix + "Background" }

func (a Background) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(BackgroundKindLoggable, []BackgroundKind{a.Kind})).
		Optional(types.Maybe(components.ColorLoggable, a.Color)).
		Build()
}

// PlotLegend configures the legend of a plot view.
type PlotLegend struct {
	Corner  *Corner2D
	Visible *Visible
}

func (PlotLegend) ArchetypeName() string { return archetypePrefix + "PlotLegend" }

func (a PlotLegend) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Optional(types.Maybe(Corner2DLoggable, a.Corner)).
		Optional(types.Maybe(VisibleLoggable, a.Visible)).
		Build()
}

// ScalarAxis configures the value axis of a plot view.
type ScalarAxis struct {
	Range           *components.Range1D
	ZoomLockEnabled *LockRangeDuringZoom
}

func (ScalarAxis) ArchetypeName() string { return archetypePrefix + "ScalarAxis" }

func (a ScalarAxis) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Optional(types.Maybe(components.Range1DLoggable, a.Range)).
		Optional(types.Maybe(LockRangeDuringZoomLoggable, a.ZoomLockEnabled)).
		Build()
}

// VisibleTimeRanges sets the time window of a view, one entry per
// timeline.
type VisibleTimeRanges struct {
	Ranges []VisibleTimeRange
}

func (VisibleTimeRanges) ArchetypeName() string { return archetypePrefix + "VisibleTimeRanges" }

func (a VisibleTimeRanges) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.Many(VisibleTimeRangeLoggable, a.Ranges)).
		Build()
}
