package mathutil

// Mat4 is a 4×4 matrix stored row-major. Used for camera view transforms.
type Mat4 [16]float64

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// LookAt returns the world-to-eye transform for a camera at eye looking at target.
// Eye space is right-handed: +X right, +Y up, the camera looks down -Z.
// up is a hint; when it is parallel to the view direction WorldZ is used instead.
func LookAt(eye, target, up Vec3) Mat4 {
	fwd := target.Sub(eye).NormalizeOr(Vec3{0, 0, -1})
	right := fwd.Cross(up)
	if right.LenSq() < 1e-6 {
		right = fwd.Cross(WorldZ)
	}
	right = right.Normalize()
	trueUp := right.Cross(fwd)
	r := Mat3FromRows(right, trueUp, fwd.Neg())
	return FromMat3Translation(r, r.MulVec3(eye).Neg())
}
