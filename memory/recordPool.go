package memory

import (
	"log"
	"sync"

	"github.com/DrewWhite51/blockchain-poc/records"
)

// RecordPool holds submitted records in arrival order until they are sealed.
// Duplicates are kept.
type RecordPool struct {
	sync.Mutex
	pool []records.Record
}

func NewRecordPool() *RecordPool {
	return &RecordPool{
		pool: []records.Record{},
	}
}

func (p *RecordPool) Len() int {
	p.Lock()
	defer p.Unlock()
	return len(p.pool)
}

func (p *RecordPool) Append(rec records.Record) {
	p.Lock()
	defer p.Unlock()
	p.pool = append(p.pool, rec)
	log.Printf("pending record %s (%d in pool)\n", rec.ShortId(), len(p.pool))
}

func (p *RecordPool) GetAll() []records.Record {
	p.Lock()
	defer p.Unlock()
	return records.Clone(p.pool)
}

func (p *RecordPool) Clear() {
	p.Lock()
	defer p.Unlock()
	p.pool = []records.Record{}
}
