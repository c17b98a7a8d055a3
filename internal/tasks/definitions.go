package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	// Register general tasks
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)

	// Register account tasks
	RegisterHandler(RefreshAccountStatusesTask.TaskID(), RefreshAccountStatusesTask.HandleExecution)

	// Register notification tasks
	RegisterHandler(SendOverdueRemindersTask.TaskID(), SendOverdueRemindersTask.HandleExecution)
}
