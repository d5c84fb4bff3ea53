// briefing/export.go
// Copyright(c) 2024-2026 sitac contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package briefing

import (
	"context"
	"encoding/base64"
	"os"
	"time"
)

// StartExport generates the PowerPoint briefing on the server and writes
// it to a user-chosen path.  jpeg holds the captured map image, already
// encoded; nil is allowed and exports without a map slide.  choosePath is
// given a suggested filename and returns the destination, or "" if the
// user canceled.  The export button is re-enabled no matter how the
// export ends, including a panic on the export goroutine.
func (c *Controller) StartExport(jpeg []byte, choosePath func(defaultName string) (string, error)) {
	if c.state.ExportBusy || c.state.Briefing == nil {
		return
	}
	c.state.ExportBusy = true
	c.state.ExportError = ""

	image := ""
	if len(jpeg) > 0 {
		image = base64.StdEncoding.EncodeToString(jpeg)
	}
	defaultName := c.state.Briefing.SafeTitle() + "_briefing.pptx"

	go func() {
		var exportErr error
		// Deferred first so it runs after the re-enable below, recovering
		// any panic once ExportBusy has been cleared.
		defer c.lg.CatchAndReportCrash()
		defer func() {
			err := exportErr
			c.post(func(c *Controller) {
				c.state.ExportBusy = false
				if err != nil {
					c.state.ExportError = err.Error()
				}
			})
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		pptx, err := c.server.ExportPPTX(ctx, image)
		if err != nil {
			exportErr = err
			return
		}

		path, err := choosePath(defaultName)
		if err != nil || path == "" {
			exportErr = err
			return
		}

		if err := os.WriteFile(path, pptx, 0o644); err != nil {
			exportErr = err
			return
		}
		c.lg.Infof("exported briefing to %s (%d bytes)", path, len(pptx))
	}()
}
