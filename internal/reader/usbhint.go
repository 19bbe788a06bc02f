// internal/reader/usbhint.go
package reader

import (
	"fmt"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// knownAdapterVendors maps USB vendor IDs of common USB-to-serial bridge
// chips to a human-readable name. RFID readers like the EM-18 reach the
// host through one of these.
var knownAdapterVendors = map[gousb.ID]string{
	0x1A86: "QinHeng CH340/CH341",
	0x10C4: "Silicon Labs CP210x",
	0x0403: "FTDI FT232",
	0x067B: "Prolific PL2303",
}

// DetectUSBAdapters probes the USB bus for known USB-to-serial bridge
// chips. It is a diagnostic hint only: some platforms expose no usable
// description on the serial side, so a positive hit tells the operator a
// reader is likely attached even when keyword matching failed.
func DetectUSBAdapters(logger *zap.Logger) []string {
	ctx := gousb.NewContext()
	defer func() {
		if err := ctx.Close(); err != nil {
			logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()

	var found []string
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if name, ok := knownAdapterVendors[desc.Vendor]; ok {
			found = append(found, fmt.Sprintf("%s (%s:%s)", name, desc.Vendor, desc.Product))
		}
		// Never actually open anything, enumeration is enough
		return false
	})
	if err != nil {
		logger.Debug("USB enumeration not available", zap.Error(err))
		return nil
	}
	for _, dev := range devices {
		dev.Close()
	}

	if len(found) > 0 {
		logger.Info("Known USB-serial adapters present", zap.Strings("adapters", found))
	}

	return found
}
