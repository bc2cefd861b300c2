// Package vis groups the MPC trace visualiser: loading recorded simulations
// and drawing them as panel grids.
//
// # Reading Guide
//
// Data flows through two packages:
//   - vis/trace/: loads a JSON or YAML record and normalises it into a
//     read-only Model (fixed-shape series, units, optional bounds)
//   - vis/render/: lays the Model's channels out on a grid, composes each
//     panel's series and replays the result onto a Surface
//
// # Backends
//
// render.Surface and render.Axes are the only contact points with a plotting
// library:
//   - vis/render/plotsurface/: gonum/plot, writes png, jpg, tif, svg, pdf, eps
//   - vis/render/htmlsurface/: go-echarts, writes an interactive HTML page
//
// Renderer.Compose is pure, so tests inspect a Figure directly or draw it onto
// a recording Surface without touching either backend.
package vis
