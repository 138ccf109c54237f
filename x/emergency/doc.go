/*
Package emergency implements the multi party override of an escrow.

Three designated signers can agree to stop an escrow before all of its
milestones are paid out. The first signer requests the withdrawal and
names the signer set. Once two distinct signers signed, the escrow is
closed and whatever the holding account still holds goes back to the
escrow creator, in the same operation.

At most one withdrawal exists for an escrow and it executes at most once.
*/
package emergency
