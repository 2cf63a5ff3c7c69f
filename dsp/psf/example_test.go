package psf_test

import (
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/psf"
	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/dsp/volume"
)

func ExamplePSFT_Kernel() {
	// 3-sample PSF along the fastest axis, resampled at half its spacing.
	p, _ := psf.New([]float64{1, 2, 1}, transform.Geometry{N1: 1, N2: 1, N3: 3}, volume.Voxel{V1: 1, V2: 1, V3: 1})

	kernel, _ := p.Kernel(transform.Geometry{N1: 1, N2: 1, N3: 5}, volume.Voxel{V1: 1, V2: 1, V3: 0.5})
	fmt.Printf("%.3f\n", kernel)

	// Output:
	// [0.286 0.214 0.143 0.143 0.214]
}
