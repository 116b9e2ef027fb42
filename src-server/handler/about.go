// This package contains the command groups registered by the bot.
//
// Every group is a type implementing command.Group, owning a namespace of
// commands that don't collide with any other group. A command can serve
// legacy prefixed messages, slash commands or both.
//
// Only return errors when something went wrong that the invoker should be
// told about; the router turns them into a notification. Use the typed
// errors of the failure package for argument problems.
package handler
