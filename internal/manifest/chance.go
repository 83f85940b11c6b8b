package manifest

// Chance draws once under p and reports a hit.
// p <= 0 => never. p >= 1 => always. otherwise rng.Float64() < p
func Chance(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
