package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

const bannerArt = `
 ███████╗███╗   ██╗ ██████╗ ██╗    ██╗███████╗██╗      █████╗ ██╗  ██╗███████╗
 ██╔════╝████╗  ██║██╔═══██╗██║    ██║██╔════╝██║     ██╔══██╗██║ ██╔╝██╔════╝
 ███████╗██╔██╗ ██║██║   ██║██║ █╗ ██║█████╗  ██║     ███████║█████╔╝ █████╗
 ╚════██║██║╚██╗██║██║   ██║██║███╗██║██╔══╝  ██║     ██╔══██║██╔═██╗ ██╔══╝
 ███████║██║ ╚████║╚██████╔╝╚███╔███╔╝██║     ███████╗██║  ██║██║  ██╗███████╗
 ╚══════╝╚═╝  ╚═══╝ ╚═════╝  ╚══╝╚══╝ ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝`

const bannerCompact = "S N O W F L A K E"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 82

// RenderBanner returns the banner styled in the primary color, or the
// compact form when the terminal is too narrow.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
