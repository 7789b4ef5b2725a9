package track

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// kalmanFilter tracks a bounding box with a constant-velocity motion model.
// State is [cx, cy, w, h, vcx, vcy, vw, vh].
type kalmanFilter struct {
	x *mat.VecDense
	p *mat.Dense
	f *mat.Dense
	h *mat.Dense
	q *mat.Dense
	r *mat.Dense
}

const kalmanDim = 8

func newKalmanFilter(box image.Rectangle) *kalmanFilter {
	f := eye(kalmanDim)
	for i := 0; i < 4; i++ {
		f.Set(i, i+4, 1)
	}

	h := mat.NewDense(4, kalmanDim, nil)
	for i := 0; i < 4; i++ {
		h.Set(i, i, 1)
	}

	q := eye(kalmanDim)
	for i := 4; i < kalmanDim; i++ {
		q.Set(i, i, 0.01)
	}

	r := eye(4)
	r.Scale(10, r)

	p := eye(kalmanDim)
	p.Scale(10, p)
	for i := 4; i < kalmanDim; i++ {
		p.Set(i, i, 1000)
	}

	z := boxToMeasurement(box)
	x := mat.NewVecDense(kalmanDim, nil)
	for i := 0; i < 4; i++ {
		x.SetVec(i, z.AtVec(i))
	}

	return &kalmanFilter{x: x, p: p, f: f, h: h, q: q, r: r}
}

// predict advances the state one frame and returns the predicted box
func (k *kalmanFilter) predict() image.Rectangle {
	var x mat.VecDense
	x.MulVec(k.f, k.x)
	k.x.CopyVec(&x)

	var fp, fpft mat.Dense
	fp.Mul(k.f, k.p)
	fpft.Mul(&fp, k.f.T())
	fpft.Add(&fpft, k.q)
	k.p.Copy(&fpft)

	return k.stateBox()
}

// update corrects the state with a measured box
func (k *kalmanFilter) update(box image.Rectangle) error {
	z := boxToMeasurement(box)

	var hx, y mat.VecDense
	hx.MulVec(k.h, k.x)
	y.SubVec(z, &hx)

	var pht, s mat.Dense
	pht.Mul(k.p, k.h.T())
	s.Mul(k.h, &pht)
	s.Add(&s, k.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return errors.Wrap(err, "innovation covariance not invertible")
	}

	var gain mat.Dense
	gain.Mul(&pht, &sInv)

	var ky mat.VecDense
	ky.MulVec(&gain, &y)
	k.x.AddVec(k.x, &ky)

	var kh, ikh, p mat.Dense
	kh.Mul(&gain, k.h)
	ikh.Sub(eye(kalmanDim), &kh)
	p.Mul(&ikh, k.p)
	k.p.Copy(&p)

	return nil
}

// stateBox converts the current state estimate back to a rectangle
func (k *kalmanFilter) stateBox() image.Rectangle {
	cx := k.x.AtVec(0)
	cy := k.x.AtVec(1)
	w := k.x.AtVec(2)
	h := k.x.AtVec(3)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return image.Rect(
		int(cx-w/2),
		int(cy-h/2),
		int(cx+w/2),
		int(cy+h/2),
	)
}

func boxToMeasurement(box image.Rectangle) *mat.VecDense {
	return mat.NewVecDense(4, []float64{
		float64(box.Min.X) + float64(box.Dx())/2,
		float64(box.Min.Y) + float64(box.Dy())/2,
		float64(box.Dx()),
		float64(box.Dy()),
	})
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
