package manager

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/cifparser/pkg/cif"
	"golang.org/x/exp/slices"
)

type Statistics struct {
	mutex sync.Mutex

	Inputs   int
	Bytes    int64
	Filtered int
	Records  map[cif.RecordIdentity]int
}

func newStatistics() *Statistics {
	return &Statistics{
		Records: map[cif.RecordIdentity]int{},
	}
}

func (s *Statistics) record(identity cif.RecordIdentity) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Records[identity] += 1
}

func (s *Statistics) filtered() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Filtered += 1
}

func (s *Statistics) input(bytes int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.Inputs += 1
	s.Bytes += bytes
}

func (s *Statistics) Total() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	total := 0
	for _, count := range s.Records {
		total += count
	}

	return total
}

func (s *Statistics) MarshalZerologObject(event *zerolog.Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	identities := make([]string, 0, len(s.Records))
	for identity := range s.Records {
		identities = append(identities, string(identity))
	}
	slices.Sort(identities)

	counts := zerolog.Dict()
	for _, identity := range identities {
		counts.Int(identity, s.Records[cif.RecordIdentity(identity)])
	}

	event.Int("inputs", s.Inputs).
		Int64("bytes", s.Bytes).
		Int("filtered", s.Filtered).
		Dict("records", counts)
}

func (s *Statistics) Log() {
	log.Info().EmbedObject(s).Msg("Finished decoding")
}
