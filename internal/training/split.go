package training

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"sentiment-service/internal/models"
)

// StratifiedSplit partitions entries into train and test sets, keeping the
// label proportions of each set close to the full data. The same seed always
// yields the same split. Both halves keep the input order.
func StratifiedSplit(entries []*models.DatasetEntry, testSize float64, seed int64) (train, test []*models.DatasetEntry, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0,1), got %v", testSize)
	}

	byLabel := make(map[string][]int)
	var labels []string
	for i, e := range entries {
		if _, ok := byLabel[e.Label]; !ok {
			labels = append(labels, e.Label)
		}
		byLabel[e.Label] = append(byLabel[e.Label], i)
	}
	slices.Sort(labels)

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	isTest := make([]bool, len(entries))
	for _, label := range labels {
		idx := byLabel[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		k := int(math.Round(testSize * float64(len(idx))))
		if k == 0 && len(idx) > 1 {
			k = 1
		}
		if k == len(idx) && k > 1 {
			k--
		}
		for _, i := range idx[:k] {
			isTest[i] = true
		}
	}

	for i, e := range entries {
		if isTest[i] {
			test = append(test, e)
		} else {
			train = append(train, e)
		}
	}
	return train, test, nil
}
