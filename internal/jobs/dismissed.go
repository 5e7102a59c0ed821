package jobs

import (
	"encoding/json"
	"os"
	"time"
)

// DismissedJobs is the on-disk record of postings the candidate no longer
// wants to see. One file per candidate, appended over time.
type DismissedJobs struct {
	Items []*DismissedJob
}

type DismissedJob struct {
	ID          string
	Title       string
	Company     string
	DismissedAt time.Time
}

// ToDismissed converts the current postings into dismissed entries.
func (j *Jobs) ToDismissed() *DismissedJobs {
	dismissed := &DismissedJobs{}
	for _, posting := range j.Items {
		dismissed.Items = append(dismissed.Items, &DismissedJob{
			ID:          posting.ID,
			Title:       posting.Title,
			Company:     posting.Company,
			DismissedAt: time.Now().UTC(),
		})
	}
	return dismissed
}

func GetDismissedJobsFromFile(path string) (*DismissedJobs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &DismissedJobs{}, nil
	}

	var dismissed DismissedJobs
	if err := json.NewDecoder(file).Decode(&dismissed); err != nil {
		return nil, err
	}
	return &dismissed, nil
}

func (d *DismissedJobs) Append(s *DismissedJobs) {
	d.Items = append(d.Items, s.Items...)
}

func (d *DismissedJobs) IDs() []string {
	ids := make([]string, 0)
	for _, job := range d.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

func (d *DismissedJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	return nil
}
