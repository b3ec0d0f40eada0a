// Package domain implements cold-pool detection on station time series.
//
// # Cold pools
//
// A convective cold pool is a pocket of evaporatively cooled downdraft air
// spreading out beneath a precipitating cloud. At a surface station its
// passage shows up as an abrupt temperature drop of a few kelvin within tens
// of minutes, followed by rainfall. The detection scheme implemented here
// follows Kirsch et al. (2021, Meteorologisches Institut, Universität
// Hamburg), developed for the FESSTVaL field campaign and applied to the
// Dakar station network.
//
// # Detection scheme
//
// Detection runs once over the full, regularly sampled series and uses two
// thresholds:
//
//	Drop:    temperature falls by at least |DropThreshold| kelvin within
//	         DropWindow. Marks a candidate.
//	Passage: within the candidate's drop window, the first sample where
//	         temperature has fallen by |PassageThreshold| from the window's
//	         starting value; the passage index is one sample before it.
//
// The coarse drop threshold decides *whether* a cold pool occurred; the fine
// passage threshold decides *when* it began. Candidates are then filtered
// sequentially: a candidate closer than PostWindow samples to the previously
// accepted passage is merged into it, events whose pre/post window would
// leave the series are dropped, events with insufficient temperature or
// rainfall coverage are dropped, and events without any rainfall in the
// post-passage window are dropped (no precipitation response means no cold
// pool).
//
// The separation rule compares the raw candidate index against the previous
// *refined* passage index; changing either side alters which
// near-simultaneous events merge.
//
// # Periods and perturbations
//
// Each accepted passage at index i defines three half-open sample ranges:
//
//	pre  = [i-npre, i+1)    baseline conditions
//	post = [i+1, i+npost+1) disturbed conditions
//	all  = [i-npre, i+npost+1)
//
// A perturbation is a post-period reduction minus a pre-period reduction of
// any variable, e.g. post-minimum minus pre-median for temperature or
// post-maximum minus pre-median for pressure and wind. Reductions skip
// missing samples; a window that fails the per-event availability gate is
// reported as missing entirely rather than from partial data.
//
// # Missing data
//
// Missing samples are NaN. Availability, the finite fraction of a span,
// gates statistics two ways: globally (advisory warning only) and per event
// (hard gate during detection and windowing).
package domain
