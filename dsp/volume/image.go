package volume

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/transform"
)

// Domain is the current representation of an image.
type Domain int

const (
	// Spatial images hold N real samples.
	Spatial Domain = iota
	// Spectral images hold N complex bins.
	Spectral
)

func (d Domain) String() string {
	if d == Spectral {
		return "spectral"
	}
	return "spatial"
}

// ImageT is a 3-D volume bound to settings. The spectral buffer is
// allocated on the first Forward call and reused afterwards.
type ImageT[F algofft.Float, C algofft.Complex] struct {
	settings *SettingsT[C]
	geom     transform.Geometry
	voxel    Voxel
	domain   Domain

	data []F
	spec []C
}

// Image is the float64 specialization.
type Image = ImageT[float64, complex128]

// Image32 is the float32 specialization.
type Image32 = ImageT[float32, complex64]

// NewImageT creates a spatial image on s and copies data into it. A nil
// data slice yields a zero volume.
func NewImageT[F algofft.Float, C algofft.Complex](s *SettingsT[C], data []F) (*ImageT[F, C], error) {
	if err := core.CheckPair[F, C](); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil settings", ErrReleased)
	}

	g := s.Geometry()
	if data != nil && len(data) != g.Len() {
		return nil, fmt.Errorf("%w: %d samples for geometry %s",
			transform.ErrGeometryMismatch, len(data), g)
	}
	if err := s.retain(); err != nil {
		return nil, err
	}

	im := &ImageT[F, C]{
		settings: s,
		geom:     g,
		voxel:    s.Voxel(),
		data:     make([]F, g.Len()),
	}
	core.CopyInto(im.data, data)
	return im, nil
}

// NewImage creates a float64 image.
func NewImage(s *Settings, data []float64) (*Image, error) {
	return NewImageT(s, data)
}

// NewImage32 creates a float32 image.
func NewImage32(s *Settings32, data []float32) (*Image32, error) {
	return NewImageT(s, data)
}

// Settings returns the settings the image was created on.
func (im *ImageT[F, C]) Settings() *SettingsT[C] { return im.settings }

// Geometry returns the image dimensions.
func (im *ImageT[F, C]) Geometry() transform.Geometry { return im.geom }

// Voxel returns the sample spacing.
func (im *ImageT[F, C]) Voxel() Voxel { return im.voxel }

// Domain returns the current representation.
func (im *ImageT[F, C]) Domain() Domain { return im.domain }

// Forward transforms the image into the spectral domain.
func (im *ImageT[F, C]) Forward() error {
	if err := im.expect(Spatial); err != nil {
		return err
	}

	im.spec = core.EnsureLen(im.spec, im.geom.Len())
	core.Zero(im.spec)
	v := core.Interleaved[F](im.spec)
	for i, x := range im.data {
		v[2*i] = x
	}

	if err := im.settings.plan.Forward(im.spec, im.spec); err != nil {
		return err
	}
	im.domain = Spectral
	return nil
}

// Inverse transforms the image back into the spatial domain, including
// the 1/(N1*N2*N3) normalization. The imaginary residue is discarded.
func (im *ImageT[F, C]) Inverse() error {
	if err := im.expect(Spectral); err != nil {
		return err
	}
	if err := im.settings.plan.Inverse(im.spec, im.spec); err != nil {
		return err
	}

	v := core.Interleaved[F](im.spec)
	for i := range im.data {
		im.data[i] = v[2*i]
	}
	im.domain = Spatial
	return nil
}

// Data returns a copy of the spatial samples.
func (im *ImageT[F, C]) Data() ([]F, error) {
	if err := im.expect(Spatial); err != nil {
		return nil, err
	}
	return append([]F(nil), im.data...), nil
}

// Spectrum returns a copy of the spectral bins.
func (im *ImageT[F, C]) Spectrum() ([]C, error) {
	if err := im.expect(Spectral); err != nil {
		return nil, err
	}
	return append([]C(nil), im.spec...), nil
}

// At returns the spatial sample at (i, j, k). It panics on out of range
// indices like a slice access and reads stale data in the spectral domain.
func (im *ImageT[F, C]) At(i, j, k int) F {
	return im.data[im.geom.Index(i, j, k)]
}

// Set replaces the samples and puts the image into the spatial domain.
func (im *ImageT[F, C]) Set(data []F) error {
	if err := im.live(); err != nil {
		return err
	}
	if len(data) != im.geom.Len() {
		return fmt.Errorf("%w: %d samples for geometry %s",
			transform.ErrGeometryMismatch, len(data), im.geom)
	}
	core.CopyInto(im.data, data)
	im.domain = Spatial
	return nil
}

// SetSpectrum replaces the bins and puts the image into the spectral
// domain.
func (im *ImageT[F, C]) SetSpectrum(spec []C) error {
	if err := im.live(); err != nil {
		return err
	}
	if len(spec) != im.geom.Len() {
		return fmt.Errorf("%w: %d bins for geometry %s",
			transform.ErrGeometryMismatch, len(spec), im.geom)
	}
	im.spec = core.EnsureLen(im.spec, im.geom.Len())
	core.CopyInto(im.spec, spec)
	im.domain = Spectral
	return nil
}

// CopyData copies the contents and domain of src into im.
func (im *ImageT[F, C]) CopyData(src *ImageT[F, C]) error {
	if err := im.Compatible(src); err != nil {
		return err
	}
	if src.domain == Spectral {
		im.spec = core.EnsureLen(im.spec, im.geom.Len())
		core.CopyInto(im.spec, src.spec)
	} else {
		core.CopyInto(im.data, src.data)
	}
	im.domain = src.domain
	return nil
}

// Swap exchanges the contents of two compatible images.
func (im *ImageT[F, C]) Swap(other *ImageT[F, C]) error {
	if err := im.Compatible(other); err != nil {
		return err
	}
	im.data, other.data = other.data, im.data
	im.spec, other.spec = other.spec, im.spec
	im.domain, other.domain = other.domain, im.domain
	return nil
}

// Move transfers the contents and settings reference to a new image.
// im is left released.
func (im *ImageT[F, C]) Move() *ImageT[F, C] {
	moved := *im
	*im = ImageT[F, C]{}
	return &moved
}

// Release drops the buffers and the settings reference. Later calls
// fail with ErrReleased.
func (im *ImageT[F, C]) Release() {
	if im.settings == nil {
		return
	}
	s := im.settings
	*im = ImageT[F, C]{}
	s.Release()
}

// Compatible reports whether im and other have the same geometry and
// voxel spacing.
func (im *ImageT[F, C]) Compatible(other *ImageT[F, C]) error {
	if err := im.live(); err != nil {
		return err
	}
	if err := other.live(); err != nil {
		return err
	}
	if im.geom != other.geom {
		return fmt.Errorf("%w: %s vs %s", transform.ErrGeometryMismatch, im.geom, other.geom)
	}
	if !im.voxel.Equal(other.voxel) {
		return fmt.Errorf("%w: voxel %s vs %s", transform.ErrGeometryMismatch, im.voxel, other.voxel)
	}
	return nil
}

func (im *ImageT[F, C]) live() error {
	if im == nil || im.settings == nil {
		return ErrReleased
	}
	return nil
}

func (im *ImageT[F, C]) expect(d Domain) error {
	if err := im.live(); err != nil {
		return err
	}
	if im.domain != d {
		return fmt.Errorf("%w: image is %s, need %s", ErrWrongDomain, im.domain, d)
	}
	return nil
}

// binary checks that im and other can be combined pointwise in domain d.
func (im *ImageT[F, C]) binary(other *ImageT[F, C], d Domain) error {
	if err := im.Compatible(other); err != nil {
		return err
	}
	if err := im.expect(d); err != nil {
		return err
	}
	if err := other.expect(d); err != nil {
		return fmt.Errorf("operand: %w", err)
	}
	return nil
}
