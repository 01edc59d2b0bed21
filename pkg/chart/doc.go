// Package chart turns a ranked proportion series into plotting-ready output.
//
// [RenderSVG] draws a standalone vertical bar chart: bars appear in rank
// order, each filled with the color its rank was assigned, labeled with its
// share and its column name. [RenderJSON] emits the same series as parallel
// arrays for a front-end charting library:
//
//	{
//	  "title": "A",
//	  "categories": ["q2", "q1"],
//	  "values": [0.7, 0.3],
//	  "colors": ["rgba(255,0,0,1)", "rgba(0,0,255,0.88)"],
//	  "labels": ["70.0%", "30.0%"]
//	}
//
// Both are deterministic functions of their input.
package chart
