// Package report renders accelerometer recordings as charts: a static PNG
// for reports and an interactive HTML page for exploring a ride.
package report
