package types

// FixedTemplateDocument holds one optional record per page of the fixed campaign
// report. A nil record means the page is skipped. Every value is a display-ready
// string; nothing here is parsed or recomputed.
type FixedTemplateDocument struct {
	TitleCover           *TitleCoverContent           `json:"slide1_Title,omitempty"`
	Agenda               *FixedAgendaContent          `json:"slide2_Agenda,omitempty"`
	ObjectivesResults    *ObjectivesResultsContent    `json:"slide3_ObjectivesResults,omitempty"`
	KPICharts            *KPIChartsContent            `json:"slide4_KPICharts,omitempty"`
	ComparativeCharts    *ComparativeChartsContent    `json:"slide5_ComparativeCharts,omitempty"`
	SectionDivider       *FixedSectionContent         `json:"slide6_SectionDivider,omitempty"`
	DemographicsCreative *DemographicsCreativeContent `json:"slide7_DemographicsCreative,omitempty"`
	ConsiderationStage   *FunnelStageContent          `json:"slide8_ConsiderationStage,omitempty"`
	ConversionStage      *FunnelStageContent          `json:"slide9_ConversionStage,omitempty"`
	CreativeGallery      *CreativeGalleryContent      `json:"slide10_CreativeGallery,omitempty"`
	OrganicSummary       *OrganicSummaryContent       `json:"slide11_OrganicSummary,omitempty"`
}

// FixedSlotID names one page of the fixed report
type FixedSlotID string

// Fixed report pages in render order
const (
	SlotTitleCover           FixedSlotID = "slide1_Title"
	SlotAgenda               FixedSlotID = "slide2_Agenda"
	SlotObjectivesResults    FixedSlotID = "slide3_ObjectivesResults"
	SlotKPICharts            FixedSlotID = "slide4_KPICharts"
	SlotComparativeCharts    FixedSlotID = "slide5_ComparativeCharts"
	SlotSectionDivider       FixedSlotID = "slide6_SectionDivider"
	SlotDemographicsCreative FixedSlotID = "slide7_DemographicsCreative"
	SlotConsiderationStage   FixedSlotID = "slide8_ConsiderationStage"
	SlotConversionStage      FixedSlotID = "slide9_ConversionStage"
	SlotCreativeGallery      FixedSlotID = "slide10_CreativeGallery"
	SlotOrganicSummary       FixedSlotID = "slide11_OrganicSummary"
)

// FixedSlot pairs a page id with its payload. Payload is nil when the page is absent,
// otherwise it is the non-nil pointer from the document.
type FixedSlot struct {
	ID      FixedSlotID
	Payload any
}

// Present reports whether the page has content
func (s FixedSlot) Present() bool {
	return s.Payload != nil
}

func slotOf[T any](id FixedSlotID, payload *T) FixedSlot {
	if payload == nil {
		return FixedSlot{ID: id}
	}
	return FixedSlot{ID: id, Payload: payload}
}

// Slots returns all eleven pages in report order, present or not
func (d *FixedTemplateDocument) Slots() []FixedSlot {
	if d == nil {
		return nil
	}
	return []FixedSlot{
		slotOf(SlotTitleCover, d.TitleCover),
		slotOf(SlotAgenda, d.Agenda),
		slotOf(SlotObjectivesResults, d.ObjectivesResults),
		slotOf(SlotKPICharts, d.KPICharts),
		slotOf(SlotComparativeCharts, d.ComparativeCharts),
		slotOf(SlotSectionDivider, d.SectionDivider),
		slotOf(SlotDemographicsCreative, d.DemographicsCreative),
		slotOf(SlotConsiderationStage, d.ConsiderationStage),
		slotOf(SlotConversionStage, d.ConversionStage),
		slotOf(SlotCreativeGallery, d.CreativeGallery),
		slotOf(SlotOrganicSummary, d.OrganicSummary),
	}
}

// TitleCoverContent is page 1
type TitleCoverContent struct {
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	ClientName string `json:"clientName,omitempty"`
	Period     string `json:"period,omitempty"`
	ReportType string `json:"reportType,omitempty"`
}

// FixedAgendaContent is page 2
type FixedAgendaContent struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items,omitempty"`
}

// ObjectivesResultsContent is page 3
type ObjectivesResultsContent struct {
	Title           string   `json:"title,omitempty"`
	ObjectivesTitle string   `json:"objectivesTitle,omitempty"`
	Objectives      []string `json:"objectives,omitempty"`
	ResultsTitle    string   `json:"resultsTitle,omitempty"`
	ResultsPoints   []string `json:"resultsPoints,omitempty"`
}

// KPIValue is a labelled headline number such as {"Reach", "1.2M", "+12%"}
type KPIValue struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
	Delta string `json:"delta,omitempty"`
}

// ChartItem is one value of a synthetic chart, e.g. {"Mobile", "64%"}
type ChartItem struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
}

// ChartGroup is a titled row of donut charts
type ChartGroup struct {
	Title string      `json:"title,omitempty"`
	Items []ChartItem `json:"items,omitempty"`
}

// KPIChartsContent is page 4: header KPIs plus two donut groups
type KPIChartsContent struct {
	Title           string      `json:"title,omitempty"`
	HeaderKPIs      []KPIValue  `json:"headerKpis,omitempty"`
	PrimaryCharts   *ChartGroup `json:"primaryCharts,omitempty"`
	SecondaryCharts *ChartGroup `json:"secondaryCharts,omitempty"`
}

// ComparativeChartsContent is page 5: our results against everyone's
type ComparativeChartsContent struct {
	Title    string      `json:"title,omitempty"`
	Ours     *ChartGroup `json:"ours,omitempty"`
	Everyone *ChartGroup `json:"everyone,omitempty"`
	Insights []string    `json:"insights,omitempty"`
}

// FixedSectionContent is page 6
type FixedSectionContent struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

// ChartStyle selects how a mini chart is drawn
type ChartStyle string

// Mini chart styles
const (
	ChartDonut ChartStyle = "donut"
	ChartBar   ChartStyle = "bar"
)

// MiniChart is a small titled multi-item chart
type MiniChart struct {
	Title string      `json:"title,omitempty"`
	Style ChartStyle  `json:"style,omitempty"`
	Items []ChartItem `json:"items,omitempty"`
}

// DemographicsCreativeContent is page 7: one creative plus demographic charts
type DemographicsCreativeContent struct {
	Title           string      `json:"title,omitempty"`
	ImageIdentifier string      `json:"imageIdentifier,omitempty"`
	CreativeName    string      `json:"creativeName,omitempty"`
	Charts          []MiniChart `json:"charts,omitempty"`
}

// MetricRow is one labelled table row
type MetricRow struct {
	Label  string   `json:"label,omitempty"`
	Values []string `json:"values,omitempty"`
}

// MetricTable is a header row plus labelled rows
type MetricTable struct {
	Title   string      `json:"title,omitempty"`
	Columns []string    `json:"columns,omitempty"`
	Rows    []MetricRow `json:"rows,omitempty"`
}

// FunnelStageContent is pages 8 and 9 (consideration and conversion stages)
type FunnelStageContent struct {
	Title        string       `json:"title,omitempty"`
	StageLabel   string       `json:"stageLabel,omitempty"`
	GlobalKPIs   []KPIValue   `json:"globalKpis,omitempty"`
	RegionTable  *MetricTable `json:"regionTable,omitempty"`
	ChannelTable *MetricTable `json:"channelTable,omitempty"`
	Insights     []string     `json:"insights,omitempty"`
}

// GalleryCreative is one creative of the gallery page
type GalleryCreative struct {
	Name            string   `json:"name,omitempty"`
	ImageIdentifier string   `json:"imageIdentifier,omitempty"`
	Metrics         []string `json:"metrics,omitempty"`
}

// CreativeGalleryContent is page 10
type CreativeGalleryContent struct {
	Title     string            `json:"title,omitempty"`
	Creatives []GalleryCreative `json:"creatives,omitempty"`
	Analysis  []string          `json:"analysis,omitempty"`
}

// OrganicObjective is one objective with its KPI bullets
type OrganicObjective struct {
	Title string   `json:"title,omitempty"`
	KPIs  []string `json:"kpis,omitempty"`
}

// OrganicSummaryContent is page 11
type OrganicSummaryContent struct {
	Title      string             `json:"title,omitempty"`
	Objectives []OrganicObjective `json:"objectives,omitempty"`
	Summary    []string           `json:"summary,omitempty"`
}
