// Package solution redacts the solution section of a homework notebook.
//
// A Partitioner walks the cells of a notebook, finds where the solution
// starts and splits what follows into parts. In the assignment variant each
// part keeps its heading cell and has its worked solution replaced by a
// rewrite block of prompt cells; in the solution variant the notebook is
// returned unchanged.
//
// # Boundary strategies
//
// Two strategies locate the boundaries:
//
//   - Tags (default): a cell tagged "solution" opens the solution region,
//     cells tagged "part" open a subsection, and "sketch" on a part cell asks
//     for a sketch instead of typed work.
//   - Legacy: the first markdown cell containing "## solution"
//     (case-insensitive) opens the solution region and every later markdown
//     cell starting with "### " opens a subsection. Legacy detection is
//     deprecated and logs a warning whenever it runs.
//
// # Rewrite blocks
//
// Each subsection gets exactly one block:
//
//   - Sketch: one cell asking for an image of a sketch.
//   - ByHand: one cell asking for an image of a handwritten solution.
//   - Freeform: an explanation prompt, a code scaffold and an answer box.
//
// Scaffold cells are built fresh on every insertion; no two documents ever
// share a scaffold value.
package solution
