package bot

import (
	"aethex/emissary/internal/constants"

	"github.com/bwmarrin/discordgo"
)

// slashCommands is the full application command set registered per guild.
func slashCommands() []*discordgo.ApplicationCommand {
	armChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(constants.AllArms))
	for _, arm := range constants.AllArms {
		armChoices = append(armChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  arm.String(),
			Value: arm.String(),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "verify",
			Description: "Link your Discord account to your AeThex passport",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "code",
					Description: "The verification code shown on the AeThex platform",
					Required:    true,
				},
			},
		},
		{
			Name:        "set-realm",
			Description: "Switch your primary AeThex arm and resync your roles",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "realm",
					Description: "The arm to make primary",
					Required:    true,
					Choices:     armChoices,
				},
			},
		},
		{
			Name:        "refresh-roles",
			Description: "Re-apply your arm role across all AeThex servers",
		},
	}
}
