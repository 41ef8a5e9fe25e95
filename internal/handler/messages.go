package handler

const (
	MsgWrongAuthentication = "Wrong username or password given."
	MsgUserPermissions     = "You don’t have enough permissions to handle the check in."
	MsgServerSetup         = "The server is not set up properly, contact your site administrator."
	MsgInternalError       = "Something went wrong, please try again."
)
