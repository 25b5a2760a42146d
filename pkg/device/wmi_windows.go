//go:build windows

package device

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// ndisPhysicalMediumNative80211 is the NDIS medium of Wi-Fi adapters.
const ndisPhysicalMediumNative80211 = 9

// MSFT_NetAdapter mirrors the columns read from root\StandardCimv2.
type MSFT_NetAdapter struct {
	Name                 string
	InterfaceDescription string
	InterfaceGuid        string
	PnPDeviceID          string
	NdisPhysicalMedium   uint32
	Virtual              bool
}

// WMI lists adapters through the NetAdapter CIM provider.
type WMI struct{}

// NewLister returns the WMI backed Lister.
func NewLister() Lister { return WMI{} }

func (WMI) Adapters() ([]Adapter, error) {
	var rows []MSFT_NetAdapter
	query := "SELECT Name, InterfaceDescription, InterfaceGuid, PnPDeviceID, NdisPhysicalMedium, Virtual FROM MSFT_NetAdapter"
	if err := wmi.QueryNamespace(query, &rows, `root\StandardCimv2`); err != nil {
		return nil, fmt.Errorf("querying MSFT_NetAdapter: %w", err)
	}

	adapters := make([]Adapter, 0, len(rows))
	for _, r := range rows {
		adapters = append(adapters, Adapter{
			Name:        r.Name,
			Description: r.InterfaceDescription,
			GUID:        r.InterfaceGuid,
			PNPDeviceID: r.PnPDeviceID,
			Wireless:    r.NdisPhysicalMedium == ndisPhysicalMediumNative80211,
			Virtual:     r.Virtual,
		})
	}
	return adapters, nil
}
