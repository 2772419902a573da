package model

import "time"

// CommandKind identifies an executable bot command.
type CommandKind string

const (
	CmdNextGame          CommandKind = "next_game"
	CmdNextGames         CommandKind = "next_games"
	CmdNextGameCategory  CommandKind = "next_game_category"
	CmdLetsGo            CommandKind = "lets_go"
	CmdVolunteer         CommandKind = "volunteer"
	CmdVolunteerNextGame CommandKind = "volunteer_next_game"
	CmdShowVolunteers    CommandKind = "show_volunteers"
	CmdCommands          CommandKind = "commands"
	CmdRemoveVolunteer   CommandKind = "remove_volunteer"
	CmdAssignVolunteer   CommandKind = "assign_volunteer"
	CmdAddModerator      CommandKind = "add_moderator"
	CmdRemoveModerator   CommandKind = "remove_moderator"
	CmdListModerators    CommandKind = "list_moderators"
	CmdListBotMessages   CommandKind = "list_bot_messages"
	CmdDeleteBotMessage  CommandKind = "delete_bot_message"
	CmdCleanBotMessages  CommandKind = "clean_bot_messages"
)

// Command is a fully specified, executable request. Only the fields
// meaningful to Kind are set; a zero Date means "no date given".
// Commands are produced exclusively by the parser's translator.
type Command struct {
	Kind CommandKind

	Date      time.Time
	Role      string
	Person    string
	Category  string
	Count     int
	Team      string
	UserID    string
	MessageID string
}
