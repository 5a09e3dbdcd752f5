package vehicle

// Rating is a vehicle's running mean rating aggregate.
type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// Add folds a new individual rating into the running mean and returns the
// updated aggregate. Every rating carries equal weight; there is no decay
// and no outlier rejection.
func (r Rating) Add(value float64) Rating {
	return Rating{
		Average: (r.Average*float64(r.Count) + value) / float64(r.Count+1),
		Count:   r.Count + 1,
	}
}
