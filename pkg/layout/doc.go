// Package layout computes 2-D node positions for extracted neighborhoods.
//
// Two algorithms are provided: a seeded Fruchterman-Reingold spring layout
// ([Spring], the default) and a deterministic Kamada-Kawai style stress
// minimization ([KamadaKawai]). Unknown algorithm names fall back to the
// spring layout with default parameters.
//
// All results live in the unit square; the renderer scales them to the
// figure. Layouts are deterministic for a fixed graph and seed, which keeps
// cached artifacts stable.
package layout
