//go:build nrf52 || nrf52840 || nrf52833

package main

import (
	"device/nrf"

	"apm/core"
)

// Programmable PPI channels; 20..31 are fixed.
const ppiChannels = 20

// PPI allocates programmable PPI channels.
type PPI struct {
	used uint32
}

func (p *PPI) AllocChannel() (core.Channel, error) {
	for i := 0; i < ppiChannels; i++ {
		if p.used&(1<<uint(i)) == 0 {
			p.used |= 1 << uint(i)
			return core.Channel(i), nil
		}
	}
	return 0, core.ErrResourceExhausted
}

func (p *PPI) ConnectEndpoints(ch core.Channel, eep, tep uint32) {
	nrf.PPI.CH[ch].EEP.Set(eep)
	nrf.PPI.CH[ch].TEP.Set(tep)
}

func (p *PPI) EnableChannels(mask uint32) {
	nrf.PPI.CHENSET.Set(mask & p.used)
}

var _ core.Interconnect = (*PPI)(nil)
