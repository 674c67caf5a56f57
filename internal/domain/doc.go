// Package domain models the state registry and the precomputed forecast
// artifacts the dashboard displays.
//
// # Registry
//
// The registry maps a short internal identifier (a state abbreviation such as
// "CA") to the display name shown in the dropdown ("California"). Both sides
// are unique, so the mapping is a bijection and a display name always resolves
// to exactly one identifier.
//
// # Artifact Layout
//
// Forecasts are produced offline and stored on disk, one set per state:
//
//	<graphs dir>/<ID>_graph_dict.json          Plotly figure (data + layout)
//	<plots dir>/<ID>_deaths_forecast_plot.jpg  fatality component plot
//	<plots dir>/<ID>_hosp_forecast_plot.jpg    hospitalization component plot
//
// The component plots decompose each forecast into its trend, holiday
// (outlier) effects, and the vaccination-rate regressor effect.
//
// Nothing in this package writes artifacts; they are read-only inputs.
package domain
