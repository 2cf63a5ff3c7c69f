// Package transform manages 3-D discrete Fourier transform plans.
//
// A [Plan] binds a forward and an inverse executor to one volume
// [Geometry]. Executors come from a [Planner], the precision backend
// strategy:
//
//   - [AlgoFFT]: pure-Go algo-fft plans, float32 and float64 precision.
//   - [Gonum]: gonum dsp/fourier plans, float64 precision, any axis length.
//   - [PlannerFuncs]: caller supplied callables (alternate providers, tests).
//
// Forward transforms are unnormalized. Inverse transforms apply the
// 1/(N1*N2*N3) factor exactly once, so Inverse(Forward(x)) == x.
//
// Plan construction and destruction are serialized by one package-wide
// mutex. Executions are serialized per plan; distinct plans run in
// parallel. [Cache] deduplicates plans by geometry with reference counts.
package transform
