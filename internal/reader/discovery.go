// internal/reader/discovery.go
package reader

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"attendance-service/internal/model"
)

// ListPorts enumerates OS-visible serial ports. It never fails: on
// enumeration error it logs and returns an empty slice.
func ListPorts(logger *zap.Logger) []model.SerialPortInfo {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		logger.Error("Failed to enumerate serial ports", zap.Error(err))
		return []model.SerialPortInfo{}
	}

	ports := make([]model.SerialPortInfo, 0, len(details))
	for _, d := range details {
		info := model.SerialPortInfo{
			Device:      d.Name,
			Description: d.Product,
		}
		if d.IsUSB {
			info.HardwareID = fmt.Sprintf("USB VID:PID=%s:%s", d.VID, d.PID)
			if info.Description == "" {
				info.Description = "USB Serial Device"
			}
		}
		ports = append(ports, info)

		logger.Debug("Found serial port",
			zap.String("device", info.Device),
			zap.String("description", info.Description),
		)
	}

	return ports
}

// MatchByKeyword returns the device path of the first port whose
// description contains one of the hardware keywords, or "" when none match.
func MatchByKeyword(ports []model.SerialPortInfo, keywords []string) string {
	for _, port := range ports {
		description := strings.ToLower(port.Description)
		for _, keyword := range keywords {
			if strings.Contains(description, keyword) {
				return port.Device
			}
		}
	}
	return ""
}
