// Package volume provides 3-D images with spatial and spectral
// representations and the pointwise algebra used by frequency-domain
// deconvolution.
//
// A [SettingsT] describes a volume grid (geometry and voxel spacing) and
// owns a shared transform plan. Images created from the same settings, or
// from settings derived with [SettingsT.Derive], share one plan.
//
// An [ImageT] is either in the spatial or the spectral domain.
// [ImageT.Forward] and [ImageT.Inverse] switch between them; the inverse
// applies the 1/(N1*N2*N3) normalization. [ImageT.InvDivide] is the
// deconvolution primitive: it divides spectra bin by bin under an explicit
// [Regularization] policy and never produces NaN or Inf.
//
// Images are not safe for concurrent use. Distinct images may be used from
// different goroutines, including images sharing a plan.
package volume
